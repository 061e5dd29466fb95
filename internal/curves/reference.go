package curves

import (
	"fmt"
	"math"
)

// BMICategory selects the reference body-composition branch for ages 6-17.
// It is an input classification; nothing in this package derives it.
type BMICategory int

const (
	Underweight BMICategory = iota + 1
	Normal
	Overweight
	Obese
)

func (c BMICategory) String() string {
	switch c {
	case Underweight:
		return "underweight"
	case Normal:
		return "normal"
	case Overweight:
		return "overweight"
	case Obese:
		return "obese"
	default:
		return fmt.Sprintf("BMICategory(%d)", int(c))
	}
}

// Valid reports whether c is one of the four defined categories.
func (c BMICategory) Valid() bool { return c >= Underweight && c <= Obese }

// Reference body-composition tables after Ellis, Fomon and Haschke, one row
// per integer year of age from 2 to 18, values in kg as {male, female} pairs.
// Ages 6-17 branch by BMI category; the younger rows and the 18-year boundary
// row do not.

var ffmRefYoung = [4][2]float64{
	{10.134, 9.477},  // age 2
	{12.099, 11.494}, // age 3
	{14.0, 13.2},     // age 4
	{15.72, 14.86},   // age 5
}

var ffmRef18 = [2]float64{52.17, 42.96}

// rows are ages 6..17, columns underweight/normal/overweight/obese
var ffmRefByCat = [12][4][2]float64{
	{{14.10, 16.17}, {17.06, 15.61}, {19.22, 18.34}, {21.74, 21.22}}, // 6
	{{17.09, 16.06}, {18.91, 17.81}, {21.66, 21.01}, {24.91, 25.60}}, // 7
	{{17.40, 18.11}, {20.53, 19.90}, {24.99, 22.91}, {29.00, 28.25}}, // 8
	{{19.88, 15.44}, {23.33, 21.90}, {27.52, 27.28}, {31.85, 30.90}}, // 9
	{{23.36, 23.64}, {25.40, 24.91}, {30.82, 31.10}, {35.97, 35.71}}, // 10
	{{23.86, 21.64}, {28.67, 29.24}, {33.72, 34.97}, {38.62, 40.01}}, // 11
	{{27.79, 26.45}, {33.11, 32.69}, {39.47, 37.23}, {44.95, 42.41}}, // 12
	{{31.88, 28.45}, {38.75, 35.09}, {42.82, 39.32}, {47.10, 45.27}}, // 13
	{{34.01, 34.22}, {42.32, 36.61}, {48.25, 41.27}, {54.83, 46.91}}, // 14
	{{34.92, 33.17}, {45.21, 38.79}, {50.02, 43.43}, {55.97, 47.87}}, // 15
	{{39.78, 31.72}, {47.15, 39.76}, {53.73, 45.77}, {58.31, 51.02}}, // 16
	{{42.12, 33.64}, {48.38, 39.98}, {55.36, 45.29}, {60.35, 50.60}}, // 17
}

var fmRefYoung = [4][2]float64{
	{2.456, 2.433}, // age 2
	{2.576, 2.606}, // age 3
	{2.7, 2.8},     // age 4
	{3.66, 4.47},   // age 5
}

var fmRef18 = [2]float64{13.35, 15.89}

var fmRefByCat = [12][4][2]float64{
	{{2.04, 2.89}, {3.49, 3.92}, {4.79, 5.96}, {7.20, 9.09}},        // 6
	{{2.39, 2.69}, {3.69, 4.45}, {5.45, 6.76}, {8.63, 11.58}},       // 7
	{{2.19, 3.02}, {3.91, 4.86}, {6.23, 7.44}, {10.45, 12.77}},      // 8
	{{2.54, 2.22}, {4.38, 5.11}, {7.02, 9.05}, {12.05, 14.58}},      // 9
	{{2.96, 3.95}, {4.64, 5.94}, {8.26, 10.82}, {13.67, 17.26}},     // 10
	{{2.80, 3.62}, {5.30, 7.22}, {8.97, 12.40}, {15.36, 21.69}},     // 11
	{{3.22, 4.36}, {6.30, 8.52}, {11.40, 14.43}, {19.60, 23.90}},    // 12
	{{3.42, 4.38}, {7.76, 9.67}, {12.67, 15.44}, {21.49, 28.97}},    // 13
	{{3.83, 5.46}, {8.68, 9.81}, {14.95, 16.19}, {26.28, 27.61}},    // 14
	{{4.03, 5.17}, {9.37, 10.80}, {16.09, 17.85}, {27.83, 29.25}},   // 15
	{{4.44, 4.94}, {9.94, 11.04}, {18.35, 19.78}, {29.81, 32.43}},   // 16
	{{4.65, 5.19}, {10.13, 10.81}, {18.50, 19.11}, {30.15, 30.51}},  // 17
}

// Reference performs sex-blended, BMI-branched lookups into the tables above.
type Reference struct {
	sex []float64
	cat []BMICategory
}

// NewReference binds the tables to a population. sex entries are the usual
// 0=male/1=female blend weights; cat entries select the branch for ages 6-17.
func NewReference(sex []float64, cat []BMICategory) *Reference {
	return &Reference{sex: sex, cat: cat}
}

// FFM returns reference Fat-Free Mass (kg) for individual i at age t years.
func (r *Reference) FFM(i int, t float64) float64 {
	return lookup(func(row int) float64 {
		return blendRow(ffmRefYoung, ffmRef18, ffmRefByCat, row, r.cat[i], r.sex[i])
	}, t)
}

// FM returns reference Fat Mass (kg) for individual i at age t years.
func (r *Reference) FM(i int, t float64) float64 {
	return lookup(func(row int) float64 {
		return blendRow(fmRefYoung, fmRef18, fmRefByCat, row, r.cat[i], r.sex[i])
	}, t)
}

func blendRow(young [4][2]float64, adult [2]float64, byCat [12][4][2]float64, row int, cat BMICategory, sex float64) float64 {
	var m, f float64
	switch {
	case row < 4:
		m, f = young[row][0], young[row][1]
	case row == 16:
		m, f = adult[0], adult[1]
	default:
		pair := byCat[row-4][cat-1]
		m, f = pair[0], pair[1]
	}
	return m*(1-sex) + f*sex
}

// lookup interpolates linearly between the integer-year rows bracketing t.
// Ages at or beyond 18 pin to the 18-year row; ages below 2 clamp the lower
// bucket to row 0 while still interpolating by the fractional year.
func lookup(row func(int) float64, t float64) float64 {
	if t >= 18.0 {
		return row(16)
	}
	jmin := int(math.Floor(t))
	if jmin < 2 {
		jmin = 2
	}
	jmin -= 2
	jmax := jmin + 1
	if jmax > 16 {
		jmax = 16
	}
	frac := t - math.Floor(t)
	lo := row(jmin)
	return lo + frac*(row(jmax)-lo)
}
