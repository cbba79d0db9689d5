package iconsuite

// SizePlan partitions target sizes by whether they can be produced without
// upscaling. Both lists keep the ascending order of the targets.
type SizePlan struct {
	Eligible []int
	Skipped  []int
}

// Plan marks t eligible iff t <= side.
func Plan(side int, targets TargetSizes) SizePlan {
	var p SizePlan
	for _, t := range targets {
		if t <= side {
			p.Eligible = append(p.Eligible, t)
		} else {
			p.Skipped = append(p.Skipped, t)
		}
	}
	return p
}
