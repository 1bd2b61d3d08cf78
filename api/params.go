package api

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type DocumentParams struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Author  string `json:"author"`
	Type    string `json:"type"`
}

func checkParams(params any) map[string]string {
	err := validate.Struct(params)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	for _, e := range err.(validator.ValidationErrors) {
		fields[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
	}
	return fields
}
