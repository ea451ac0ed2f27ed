package system

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// The spread path must give bit-identical results on every platform, so it avoids
// libm (whose assembly kernels differ per architecture) and wraps every product
// in an explicit float64 conversion, which forbids fused multiply-add.

// spreadStream selects the PCG stream used for spread draws
const spreadStream = 0x9e3779b97f4a7c15

// SpreadDirection perturbs direction by a seeded Gaussian-shaped pair of angles with
// standard deviation spread/3 and returns the normalised result. The same
// (direction, spread, seed) always yields the same bits.
func SpreadDirection(direction mgl64.Vec3, spread float64, seed uint64) mgl64.Vec3 {
	forward := detNormalize(direction)
	if forward == (mgl64.Vec3{}) || !(spread > 0) {
		return forward
	}

	pitch, yaw := GaussianPair(seed)
	sigma := float64(spread / 3)
	pitch = float64(pitch * sigma)
	yaw = float64(yaw * sigma)

	right, up := spreadBasis(forward)

	cp, sp := detCos(pitch), detSin(pitch)
	cy, sy := detCos(yaw), detSin(yaw)
	fw := float64(cp * cy)
	rw := float64(cp * sy)

	out := mgl64.Vec3{
		float64(float64(forward[0]*fw)+float64(up[0]*sp)) + float64(right[0]*rw),
		float64(float64(forward[1]*fw)+float64(up[1]*sp)) + float64(right[1]*rw),
		float64(float64(forward[2]*fw)+float64(up[2]*sp)) + float64(right[2]*rw),
	}
	return detNormalize(out)
}

// GaussianPair draws two independent standard-normal-shaped values from seed.
// Each value is an Irwin-Hall sum of twelve uniforms minus six, which needs only
// exact additions.
func GaussianPair(seed uint64) (float64, float64) {
	src := rand.NewPCG(seed, spreadStream)
	return irwinHall(src), irwinHall(src)
}

func irwinHall(src *rand.PCG) float64 {
	var sum float64
	for i := 0; i < 12; i++ {
		sum = float64(sum + unitFloat(src.Uint64()))
	}
	return float64(sum - 6)
}

// unitFloat maps the top 53 bits of u onto [0, 1)
func unitFloat(u uint64) float64 {
	return float64(float64(u>>11) * 0x1p-53)
}

// spreadBasis returns unit vectors perpendicular to forward: right is horizontal
// where possible, up completes the frame.
func spreadBasis(forward mgl64.Vec3) (right, up mgl64.Vec3) {
	right = detCross(forward, mgl64.Vec3{0, 1, 0})
	if detDot(right, right) < 1e-18 {
		right = mgl64.Vec3{1, 0, 0}
	}
	right = detNormalize(right)
	up = detNormalize(detCross(right, forward))
	return right, up
}

func detDot(a, b mgl64.Vec3) float64 {
	return float64(float64(float64(a[0]*b[0])+float64(a[1]*b[1])) + float64(a[2]*b[2]))
}

func detCross(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		float64(float64(a[1]*b[2]) - float64(a[2]*b[1])),
		float64(float64(a[2]*b[0]) - float64(a[0]*b[2])),
		float64(float64(a[0]*b[1]) - float64(a[1]*b[0])),
	}
}

// detNormalize relies on math.Sqrt, which IEEE 754 requires to be correctly rounded
func detNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := math.Sqrt(detDot(v, v))
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{float64(v[0] / l), float64(v[1] / l), float64(v[2] / l)}
}

// sinCoeffs and cosCoeffs are the Taylor coefficients (-1)^k/(2k+1)! and (-1)^k/(2k)!,
// carried far enough that the truncation error at maxSpreadAngle is below 1e-13
var (
	sinCoeffs = [...]float64{
		1, -1.0 / 6, 1.0 / 120, -1.0 / 5040, 1.0 / 362880, -1.0 / 39916800,
		1.0 / 6227020800, -1.0 / 1307674368000, 1.0 / 355687428096000,
	}
	cosCoeffs = [...]float64{
		1, -1.0 / 2, 1.0 / 24, -1.0 / 720, 1.0 / 40320, -1.0 / 3628800,
		1.0 / 479001600, -1.0 / 87178291200, 1.0 / 20922789888000,
		-1.0 / 6402373705728000,
	}
)

// maxSpreadAngle bounds the polynomial inputs
const maxSpreadAngle = math.Pi / 2

func detSin(x float64) float64 {
	x = clampAngle(x)
	x2 := float64(x * x)
	acc := sinCoeffs[len(sinCoeffs)-1]
	for i := len(sinCoeffs) - 2; i >= 0; i-- {
		acc = float64(float64(acc*x2) + sinCoeffs[i])
	}
	return float64(acc * x)
}

func detCos(x float64) float64 {
	x = clampAngle(x)
	x2 := float64(x * x)
	acc := cosCoeffs[len(cosCoeffs)-1]
	for i := len(cosCoeffs) - 2; i >= 0; i-- {
		acc = float64(float64(acc*x2) + cosCoeffs[i])
	}
	return acc
}

func clampAngle(x float64) float64 {
	if x > maxSpreadAngle {
		return maxSpreadAngle
	}
	if x < -maxSpreadAngle {
		return -maxSpreadAngle
	}
	return x
}
