package progress

type input struct {
	ID string `path:"id" example:"42" doc:"ID do gato"`
}

type output struct {
	Body response
}

type response struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Progress   int             `json:"progress" minimum:"0" maximum:"100" doc:"Percentage of tracked fields filled"`
	Completion map[string]bool `json:"completion" doc:"Completion per segment"`
}
