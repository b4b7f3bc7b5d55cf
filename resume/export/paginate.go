package export

// Page geometry in millimetres. The tiling height is slightly below the A4 sheet height.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 295.0
)

// Plan places one tall bitmap across consecutive pages.
type Plan struct {
	ImageWidth  float64
	ImageHeight float64
	// Offsets holds the vertical position of the bitmap on each page.
	Offsets []float64
}

// Pages is the number of pages in the plan.
func (p Plan) Pages() int {
	return len(p.Offsets)
}

// Paginate scales a bitmap of imgW x imgH pixels to the page width and tiles it vertically.
// The first tile sits at 0; each further page shifts the bitmap up by one page height.
func Paginate(imgW, imgH int) Plan {
	plan := Plan{ImageWidth: PageWidthMM}
	if imgW <= 0 || imgH <= 0 {
		plan.Offsets = []float64{0}
		return plan
	}
	plan.ImageHeight = float64(imgH) * PageWidthMM / float64(imgW)

	heightLeft := plan.ImageHeight
	plan.Offsets = append(plan.Offsets, 0)
	heightLeft -= PageHeightMM
	for heightLeft >= 0 {
		plan.Offsets = append(plan.Offsets, heightLeft-plan.ImageHeight)
		heightLeft -= PageHeightMM
	}
	return plan
}
