package account

type sessionOutput struct {
	Body sessionResponse
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	CompanyID     string `json:"companyId,omitempty" doc:"Company of the logged-in employee"`
	UserID        string `json:"userId,omitempty"`
	AccessLevel   string `json:"accessLevel,omitempty" example:"admin"`
	DisplayName   string `json:"displayName" example:"Ana"`
	PictureURL    string `json:"pictureUrl,omitempty"`
}
