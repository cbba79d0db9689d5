package iconsuite

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestMergeSizes(t *testing.T) {
	for _, test := range []struct {
		name             string
		defaults, custom []int
		want             []int
	}{
		{"defaults only", DefaultSizes, nil, DefaultSizes},
		{"unsorted with duplicates", []int{64, 16, 64, 32}, nil, []int{16, 32, 64}},
		{"custom interleaved", []int{16, 64}, []int{24, 16, 96}, []int{16, 24, 64, 96}},
		{"empty", nil, nil, []int{}},
	} {
		t.Run(test.name, func(t *testing.T) {
			got := MergeSizes(test.defaults, test.custom)
			if diff := cmp.Diff(test.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("MergeSizes (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeSizesLaws(t *testing.T) {
	a := []int{512, 16, 48, 16}
	b := []int{24, 48, 1000}

	once := MergeSizes(a, b)
	if diff := cmp.Diff(once, MergeSizes(once, b)); diff != "" {
		t.Errorf("not idempotent (-once +twice):\n%s", diff)
	}
	if diff := cmp.Diff(once, MergeSizes(b, a)); diff != "" {
		t.Errorf("not commutative (-ab +ba):\n%s", diff)
	}
	if diff := cmp.Diff([]int{512, 16, 48, 16}, a); diff != "" {
		t.Errorf("input modified (-want +got):\n%s", diff)
	}
}

func TestNewTargetSizes(t *testing.T) {
	got, err := NewTargetSizes([]int{48, 16, 48})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(TargetSizes{16, 48}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if _, err := NewTargetSizes([]int{16, 0}); err == nil {
		t.Error("NewTargetSizes accepted 0")
	}
}

func TestTargetSizesValidate(t *testing.T) {
	for _, test := range []struct {
		sizes TargetSizes
		ok    bool
	}{
		{DefaultTargetSizes(), true},
		{TargetSizes{}, true},
		{TargetSizes{1}, true},
		{TargetSizes{16, 16}, false},
		{TargetSizes{32, 16}, false},
		{TargetSizes{-1, 16}, false},
	} {
		if err := test.sizes.Validate(); (err == nil) != test.ok {
			t.Errorf("%v.Validate(): got %v, want ok=%v", test.sizes, err, test.ok)
		}
	}
}

func TestDefaultTargetSizesIsCopy(t *testing.T) {
	s := DefaultTargetSizes()
	s[0] = 999
	if DefaultSizes[0] != 16 {
		t.Fatalf("DefaultSizes modified through DefaultTargetSizes")
	}
}

func TestValidateCustomSizeBoundary(t *testing.T) {
	for _, maxSize := range []int{1, 2, 64, 400, 512} {
		m := float64(maxSize)
		for _, test := range []struct {
			size float64
			ok   bool
		}{
			{0, false},
			{-3, false},
			{1, true},
			{m, true},
			{m + 1, false},
			{12.5, false},
			{math.NaN(), false},
			{math.Inf(1), false},
		} {
			got := ValidateCustomSize(test.size, maxSize)
			if got.OK != test.ok {
				t.Errorf("ValidateCustomSize(%v, %d): got %+v, want ok=%v", test.size, maxSize, got, test.ok)
			}
			if !got.OK && got.Reason == "" {
				t.Errorf("ValidateCustomSize(%v, %d): missing reason", test.size, maxSize)
			}
		}
	}
}

func TestValidateCustomSizesReportsAll(t *testing.T) {
	valid, problems := ValidateCustomSizes([]float64{24, 0, 12.5, 401, 400}, 400)
	if diff := cmp.Diff([]int{24, 400}, valid); diff != "" {
		t.Errorf("valid (-want +got):\n%s", diff)
	}
	want := []SizeProblem{
		{Size: 0, Reason: "size must be at least 1px"},
		{Size: 12.5, Reason: "size must be an integer"},
		{Size: 401, Reason: "size cannot exceed source (400px)"},
	}
	if diff := cmp.Diff(want, problems); diff != "" {
		t.Errorf("problems (-want +got):\n%s", diff)
	}
}

func TestParseCustomSizes(t *testing.T) {
	for _, test := range []struct {
		input string
		sizes []int
		errs  []string
	}{
		{"", nil, nil},
		{"24, 40,96", []int{24, 40, 96}, nil},
		{" 96 , 24,,96 ", []int{96, 24}, nil},
		{"12.5, abc, 040, 24", []int{24}, []string{`"12.5" is not a valid number`, `"abc" is not a valid number`, `"040" is not a valid number`}},
		{"-5", []int{-5}, nil},
	} {
		sizes, errs := ParseCustomSizes(test.input)
		if diff := cmp.Diff(test.sizes, sizes); diff != "" {
			t.Errorf("ParseCustomSizes(%q) sizes (-want +got):\n%s", test.input, diff)
		}
		if diff := cmp.Diff(test.errs, errs); diff != "" {
			t.Errorf("ParseCustomSizes(%q) errs (-want +got):\n%s", test.input, diff)
		}
	}
}
