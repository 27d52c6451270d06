package jobs

import "github.com/JaimeStill/job-broker/pkg/openapi"

type spec struct {
	List        *openapi.Operation
	Find        *openapi.Operation
	Create      *openapi.Operation
	Delete      *openapi.Operation
	UploadLog   *openapi.Operation
	DownloadLog *openapi.Operation
}

var idParam = openapi.PathParam("id", "integer", "Job identifier")

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List jobs",
		Description: "List jobs with their status history, newest first",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Items per page", false),
			openapi.QueryParam("search", "string", "Search in user, description and command", false),
			openapi.QueryParam("sort", "string", "Sort fields, e.g. -ID or User,-ReceivedAt", false),
			openapi.QueryParam("user", "string", "Filter by user", false),
			openapi.QueryParam("status", "string", "Filter by status name or value", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Jobs list", "JobPageResult"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Find: &openapi.Operation{
		Summary:     "Find job",
		Description: "Find job by identifier, including events and log metadata",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Job details", "Job"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Submit job",
		Description: "Queue a shell command. The job starts WAITING.",
		RequestBody: openapi.RequestBodyJSON("CreateJobCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Job queued", "Job"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete job",
		Description: "Delete a job, its history and its stored log",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			204: {Description: "Job deleted"},
			404: openapi.ResponseRef("NotFound"),
		},
	},
	UploadLog: &openapi.Operation{
		Summary:     "Upload job log",
		Description: "Store the output of a job run, replacing any previous log",
		Parameters:  []*openapi.Parameter{idParam},
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"multipart/form-data": {
					Schema: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							LogField: {Type: "string", Format: "binary", Description: "Log file"},
						},
						Required: []string{LogField},
					},
				},
			},
		},
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Log stored", "LogFile"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			413: {Description: "File too large"},
		},
	},
	DownloadLog: &openapi.Operation{
		Summary:     "Download job log",
		Description: "Return the stored log as plain text",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Log contents",
				Content: map[string]*openapi.MediaType{
					"text/plain": {Schema: &openapi.Schema{Type: "string"}},
				},
			},
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

var statusSchema = &openapi.Schema{
	Type:        "string",
	Description: "Job status. Integer values 0-5 are also accepted on input.",
	Enum:        []any{"UNKNOWN", "SLEEPING", "WAITING", "RUNNING", "TERMINATED", "DONE"},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Job": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"identifier":  {Type: "integer", Format: "int64"},
				"user":        {Type: "string"},
				"description": {Type: "string"},
				"command":     {Type: "string"},
				"status":      openapi.SchemaRef("JobStatus"),
				"runner":      {Type: "string", Description: "Runner that claimed the job"},
				"events":      {Type: "array", Items: openapi.SchemaRef("JobEvent")},
				"logfile":     openapi.SchemaRef("LogFile"),
				"received_at": {Type: "number", Description: "Seconds since the Unix epoch"},
			},
		},
		"JobEvent": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"identifier": {Type: "integer", Format: "int64"},
				"status":     openapi.SchemaRef("JobStatus"),
				"timestamp":  {Type: "number", Description: "Seconds since the Unix epoch"},
			},
		},
		"JobStatus": statusSchema,
		"LogFile": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"filename":    {Type: "string", Description: "32 hex characters"},
				"size":        {Type: "integer", Format: "int64"},
				"uploaded_at": {Type: "number", Description: "Seconds since the Unix epoch"},
			},
		},
		"CreateJobCommand": {
			Type:     "object",
			Required: []string{"user", "command"},
			Properties: map[string]*openapi.Schema{
				"user":        {Type: "string", Example: "alice"},
				"description": {Type: "string", Example: "disk usage"},
				"command":     {Type: "string", Example: "du -sh /var/log"},
			},
		},
		"JobPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Job")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
