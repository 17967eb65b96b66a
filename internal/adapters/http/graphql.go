package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/skydata/skydata-api/internal/core/domain"
)

// jsonScalar passes decoded JSON values (properties, coordinates) through
// unchanged.
var jsonScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "JSON",
	Description: "Arbitrary JSON value",
	Serialize:   func(value interface{}) interface{} { return value },
})

// buildSchema creates the GraphQL schema wired to the station service.
func buildSchema(deps *Dependencies, production bool) (graphql.Schema, error) {
	geometryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Geometry",
		Fields: graphql.Fields{
			"type":        &graphql.Field{Type: graphql.String},
			"coordinates": &graphql.Field{Type: jsonScalar},
		},
	})

	featureType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Feature",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type:        graphql.String,
				Description: "properties.id of the station",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f, ok := p.Source.(domain.Feature)
					if !ok {
						fp, isPtr := p.Source.(*domain.Feature)
						if !isPtr || fp == nil {
							return nil, nil
						}
						f = *fp
					}
					if id, ok := f.StationID(); ok {
						return id, nil
					}
					return nil, nil
				},
			},
			"type":       &graphql.Field{Type: graphql.String},
			"geometry":   &graphql.Field{Type: geometryType},
			"properties": &graphql.Field{Type: jsonScalar},
		},
	})

	collectionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "FeatureCollection",
		Fields: graphql.Fields{
			"type":     &graphql.Field{Type: graphql.String},
			"features": &graphql.Field{Type: graphql.NewList(featureType)},
		},
	})

	nearbyType := graphql.NewObject(graphql.ObjectConfig{
		Name: "NearbyStation",
		Fields: graphql.Fields{
			"feature":  &graphql.Field{Type: featureType},
			"distance": &graphql.Field{Type: graphql.Float, Description: "Distance in meters"},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"datos": &graphql.Field{
				Type:        collectionType,
				Description: "All monitoring stations",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					fc, err := deps.Datos.Execute(p.Context)
					if err != nil {
						return nil, graphqlError(err, production)
					}
					return fc, nil
				},
			},
			"dato": &graphql.Field{
				Type:        featureType,
				Description: "A station by properties.id",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					f, err := deps.Datos.ExecuteByID(p.Context, id)
					if err != nil {
						return nil, graphqlError(err, production)
					}
					return f, nil
				},
			},
			"estacionesCercanas": &graphql.Field{
				Type:        graphql.NewList(nearbyType),
				Description: "Stations within radio meters of a position, closest first",
				Args: graphql.FieldConfigArgument{
					"lat":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radio": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 1000.0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					radio := p.Args["radio"].(float64)
					stations, err := deps.Datos.Nearby(p.Context, lat, lon, radio)
					if err != nil {
						return nil, graphqlError(err, production)
					}
					if stations == nil {
						stations = []domain.NearbyStation{}
					}
					return stations, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// graphqlError hides wrapped causes of dataset errors in production.
func graphqlError(err error, production bool) error {
	var de *domain.Error
	if production && errors.As(err, &de) {
		return errors.New(de.Message)
	}
	return err
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies, production bool) fiber.Handler {
	schema, err := buildSchema(deps, production)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil || req.Query == "" {
			return errBadRequest(c, "cuerpo de solicitud GraphQL inválido")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
