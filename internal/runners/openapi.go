package runners

import "github.com/JaimeStill/job-broker/pkg/openapi"

type spec struct {
	List         *openapi.Operation
	AvailableJob *openapi.Operation
	UpdateJob    *openapi.Operation
}

var runnerHeader = openapi.HeaderParam(Header, "Runner identifier. Defaults to the remote address.", false)

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List runners",
		Description: "Runners seen recently, sorted by id",
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Runner presence records",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Runner")}},
				},
			},
		},
	},
	AvailableJob: &openapi.Operation{
		Summary:     "Claim next job",
		Description: "Claim the oldest waiting job. The job is marked RUNNING and assigned to the caller.",
		Parameters:  []*openapi.Parameter{runnerHeader},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Claimed job", "Job"),
			204: {Description: "No job waiting"},
		},
	},
	UpdateJob: &openapi.Operation{
		Summary:     "Report job status",
		Description: "Append a status event to a job. Repeating the current status is a no-op.",
		Parameters:  []*openapi.Parameter{runnerHeader},
		RequestBody: openapi.RequestBodyJSON("JobStatusUpdate", true),
		Responses: map[int]*openapi.Response{
			204: {Description: "Status recorded"},
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Runner": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string"},
				"address":     {Type: "string"},
				"last_seen":   {Type: "number", Description: "Seconds since the Unix epoch"},
				"current_job": {Type: "integer", Format: "int64"},
				"completed":   {Type: "integer"},
				"failed":      {Type: "integer"},
				"active":      {Type: "boolean"},
			},
		},
		"JobStatusUpdate": {
			Type:     "object",
			Required: []string{"identifier", "status"},
			Properties: map[string]*openapi.Schema{
				"identifier": {Type: "integer", Format: "int64"},
				"status":     openapi.SchemaRef("JobStatus"),
			},
		},
	}
}
