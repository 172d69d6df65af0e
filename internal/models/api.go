package models

import (
	"github.com/rm-hull/image-resampler/internal/resample"
	"github.com/rm-hull/image-resampler/internal/scratch"
	"github.com/rm-hull/image-resampler/internal/tensor"
)

// ResampleQuery is bound from the query string of POST /v1/resample.
type ResampleQuery struct {
	Width  int    `form:"width" binding:"min=0"`
	Height int    `form:"height" binding:"min=0"`
	Filter string `form:"filter"`
	Url    string `form:"url"`
	Save   string `form:"save"`
}

type PlanRequest struct {
	Shape  tensor.Shape    `json:"shape"`
	Params resample.Params `json:"params" binding:"required"`
}

type PlanResponse struct {
	OutputShape  tensor.Shape  `json:"output_shape"`
	ScratchSizes scratch.Sizes `json:"scratch_sizes"`
	ScratchBytes int           `json:"scratch_bytes"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
