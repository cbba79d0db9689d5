package iconsuite

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// DefaultSizes are the icon sizes produced when nothing else is configured.
var DefaultSizes = []int{16, 32, 48, 64, 128, 180, 192, 256, 512}

// TargetSizes is a strictly increasing list of positive icon sizes.
type TargetSizes []int

func DefaultTargetSizes() TargetSizes {
	return append(TargetSizes(nil), DefaultSizes...)
}

// NewTargetSizes sorts and deduplicates sizes. Values below 1 are rejected.
func NewTargetSizes(sizes []int) (TargetSizes, error) {
	for _, s := range sizes {
		if s < 1 {
			return nil, fmt.Errorf("invalid target size %d", s)
		}
	}
	return TargetSizes(MergeSizes(sizes, nil)), nil
}

// Validate reports sizes below 1 and sizes out of strictly increasing order.
func (t TargetSizes) Validate() error {
	for i, s := range t {
		if s < 1 {
			return fmt.Errorf("invalid target size %d", s)
		}
		if i > 0 && s <= t[i-1] {
			return fmt.Errorf("target sizes not strictly increasing at %d", s)
		}
	}
	return nil
}

// MergeSizes returns the union of defaults and custom, ascending and without
// duplicates. Neither input is modified.
func MergeSizes(defaults, custom []int) []int {
	out := make([]int, 0, len(defaults)+len(custom))
	out = append(out, defaults...)
	out = append(out, custom...)
	sort.Ints(out)

	n := 0
	for i, s := range out {
		if i > 0 && s == out[n-1] {
			continue
		}
		out[n] = s
		n++
	}
	return out[:n]
}

// Validation is the outcome of checking one user-supplied size.
type Validation struct {
	OK     bool
	Reason string
}

// ValidateCustomSize checks that size is an integer in [1, maxSize].
func ValidateCustomSize(size float64, maxSize int) Validation {
	if math.IsNaN(size) || math.IsInf(size, 0) || size != math.Trunc(size) {
		return Validation{Reason: "size must be an integer"}
	}
	if size < 1 {
		return Validation{Reason: "size must be at least 1px"}
	}
	if size > float64(maxSize) {
		return Validation{Reason: fmt.Sprintf("size cannot exceed source (%dpx)", maxSize)}
	}
	return Validation{OK: true}
}

type SizeProblem struct {
	Size   float64
	Reason string
}

// ValidateCustomSizes validates every entry and reports all problems rather
// than stopping at the first.
func ValidateCustomSizes(sizes []float64, maxSize int) ([]int, []SizeProblem) {
	var valid []int
	var problems []SizeProblem
	for _, s := range sizes {
		v := ValidateCustomSize(s, maxSize)
		if !v.OK {
			problems = append(problems, SizeProblem{Size: s, Reason: v.Reason})
			continue
		}
		valid = append(valid, int(s))
	}
	return valid, problems
}

// ParseCustomSizes parses a comma separated list such as "24, 40,96".
// Parts that are not plain base-10 integers are reported in errs; the
// remaining values are returned once each, in input order.
func ParseCustomSizes(input string) (sizes []int, errs []string) {
	seen := make(map[int]bool)
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil || strconv.Itoa(v) != part {
			errs = append(errs, fmt.Sprintf("%q is not a valid number", part))
			continue
		}
		if !seen[v] {
			seen[v] = true
			sizes = append(sizes, v)
		}
	}
	return sizes, errs
}
