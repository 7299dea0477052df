package model

type RenderResponse struct {
	Lilypond string `json:"lilypond"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
