package openapi

// Components holds shared schemas and responses.
type Components struct {
	Schemas   map[string]*Schema   `json:"schemas,omitempty"`
	Responses map[string]*Response `json:"responses,omitempty"`
}

var errorBody = map[string]*MediaType{
	"application/json": {
		Schema: &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"error": {Type: "string"},
			},
		},
	},
}

// NewComponents returns the schemas and error responses every API shares.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20},
					"search":    {Type: "string", Description: "Search query"},
					"sort":      {Type: "string", Description: "Comma-separated fields, - prefix for descending", Example: "-ID"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest": {Description: "Invalid request", Content: errorBody},
			"NotFound":   {Description: "Resource not found", Content: errorBody},
			"Conflict":   {Description: "Resource conflict", Content: errorBody},
		},
	}
}

// AddSchemas merges schemas, replacing any with the same name.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	for name, s := range schemas {
		c.Schemas[name] = s
	}
}

// AddResponses merges responses, replacing any with the same name.
func (c *Components) AddResponses(responses map[string]*Response) {
	for name, r := range responses {
		c.Responses[name] = r
	}
}
