package handler

import "github.com/go-playground/validator/v10"

// validate runs the struct tag validations declared on request payloads.
var validate = validator.New()
