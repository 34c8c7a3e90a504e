package filterbank

import "github.com/dmorell/vision-figures/internal/gray"

// PipelineKeys is the fixed key set of the pipeline bank, in
// presentation order.
var PipelineKeys = []string{
	"P1_med3+unsharp",
	"P2_close+open",
}

// Pipelines applies the two fixed two-stage compositions:
//
//   - P1: median denoise at disk radius 3, then unsharp masking of the
//     denoised image with sigma 1.5 and amount 1.2
//   - P2: closing then opening, both with a disk of radius 3
func Pipelines(x *gray.Grid) map[string]*gray.Grid {
	den := Median(x, 3)
	p1 := gray.New(x.Width, x.Height)
	blurred := Gaussian(den, 1.5)
	for i := range den.Pix {
		p1.Pix[i] = den.Pix[i] + (den.Pix[i]-blurred.Pix[i])*1.2
	}

	se := Disk(3)
	return map[string]*gray.Grid{
		"P1_med3+unsharp": gray.Clip(p1),
		"P2_close+open":   Open(Close(x, se), se),
	}
}
