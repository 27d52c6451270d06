package users

import "github.com/JaimeStill/job-broker/pkg/openapi"

type spec struct {
	List *openapi.Operation
	Find *openapi.Operation
}

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List users",
		Description: "Job counts for every user that submitted a job, sorted by user",
		Responses: map[int]*openapi.Response{
			200: {
				Description: "User summaries",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("UserSummary")}},
				},
			},
		},
	},
	Find: &openapi.Operation{
		Summary:     "Find user",
		Description: "Job counts for one user",
		Parameters:  []*openapi.Parameter{openapi.PathParam("user", "string", "User name")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("User summary", "UserSummary"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"UserSummary": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"user":             {Type: "string"},
				"total":            {Type: "integer"},
				"active":           {Type: "integer", Description: "Jobs SLEEPING, WAITING or RUNNING"},
				"done":             {Type: "integer"},
				"terminated":       {Type: "integer"},
				"last_received_at": {Type: "number", Description: "Seconds since the Unix epoch"},
			},
		},
	}
}
