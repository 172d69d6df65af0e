package cmd

import (
	"encoding/json"
	"io"

	"github.com/rm-hull/image-resampler/internal/models"
	"github.com/rm-hull/image-resampler/internal/resample"
	"github.com/rm-hull/image-resampler/internal/tensor"
)

// Plan writes the output shape and scratch requirements of a resample as JSON,
// without touching any image data.
func Plan(w io.Writer, shape tensor.Shape, params resample.Params) error {
	req, err := resample.GetRequirements(shape, params)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(models.PlanResponse{
		OutputShape:  req.OutputShapes[0],
		ScratchSizes: req.ScratchSizes,
		ScratchBytes: req.ScratchSizes.Total(),
	})
}
