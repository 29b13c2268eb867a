package health

// Input represents the input for health check endpoint
type Input struct{}

// Output represents the output for health check endpoint
type Output struct {
	Body Response
}

// Response represents the health check response
type Response struct {
	Status   string `json:"status" example:"OK" doc:"Health status of the frontend"`
	Upstream string `json:"upstream" example:"OK" doc:"Reachability of the shelter API"`
	Error    string `json:"error,omitempty" doc:"Why the shelter API is unreachable"`
}
