package natsadapter

import (
	"testing"

	"github.com/skydata/skydata-api/internal/core/domain"
)

func TestAlertSubject(t *testing.T) {
	tests := map[domain.ErrorKind]string{
		domain.KindDataInvalid:  "skydata.alerts.datainvalid",
		domain.KindEmptyDataset: "skydata.alerts.emptydataset",
	}
	for kind, want := range tests {
		if got := AlertSubject(kind); got != want {
			t.Errorf("AlertSubject(%s) = %s, want %s", kind, got, want)
		}
	}
}
