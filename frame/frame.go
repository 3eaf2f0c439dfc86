// Package frame implements precession, nutation, obliquity (e_tilt), and
// the rotation matrices among the named reference frames: EQJ
// (J2000 mean equator), EQD (equator of date), ECL (J2000 ecliptic), ECT
// (true ecliptic of date), and GAL (galactic, IAU 1958). The topocentric
// HOR frame depends on an observer and lives in package observe.
//
// Grounded on coord/coord.go (IAU 2000A nutation, IAU 2006 precession,
// EarthRotationAngle/GMST/GAST already moved to astrotime) and
// coord/frames.go (Galactic/B1950/ICRS-bias matrices). The full
// NutationFull (1365-term) path depends on a generated coefficient file
// that isn't available here, so only the 30-term NutationStandard
// series is carried forward (see DESIGN.md).
package frame

import (
	"math"

	"github.com/wrenfield/astrocore/vector"
)

const (
	deg2rad    = math.Pi / 180.0
	rad2deg    = 180.0 / math.Pi
	arcsec2rad = deg2rad / 3600.0
	j2000JD    = 2451545.0
	tenthUas2Rad = arcsec2rad / 1e7
)

// Direction selects which way a frame rotation is applied:
// From2000 transforms J2000 -> date, Into2000 transforms date -> J2000.
type Direction int

const (
	From2000 Direction = iota
	Into2000
)

// ETilt holds five scalars: nutation in longitude and
// obliquity (arcseconds), mean and true obliquity (degrees), and the
// equation of the equinoxes (hours).
type ETilt struct {
	DpsiArcsec float64
	DepsArcsec float64
	MeanOblDeg float64
	TrueOblDeg float64
	EqEqHours  float64
}

// EvalETilt computes e_tilt(t) for t expressed as a TT Julian date.
func EvalETilt(ttJD float64) ETilt {
	T := (ttJD - j2000JD) / 36525.0
	dpsiRad, depsRad := nutationAngles(T)
	epsM := meanObliquity(T)
	epsT := epsM + depsRad

	eqeqHours := (dpsiRad * math.Cos(epsM)) * rad2deg / 15.0

	return ETilt{
		DpsiArcsec: dpsiRad / arcsec2rad,
		DepsArcsec: depsRad / arcsec2rad,
		MeanOblDeg: epsM * rad2deg,
		TrueOblDeg: epsT * rad2deg,
		EqEqHours:  eqeqHours,
	}
}

// fundamentalArgs computes the Delaunay arguments for the IAU 2000A
// nutation model. T is Julian centuries from J2000 TDB.
func fundamentalArgs(T float64) (l, lp, f, d, om float64) {
	l = (485868.249036 + T*(1717915923.2178+T*(31.8792+T*(0.051635-T*0.00024470)))) * arcsec2rad
	lp = (1287104.79305 + T*(129596581.0481+T*(-0.5532+T*(0.000136+T*0.00001149)))) * arcsec2rad
	f = (335779.526232 + T*(1739527262.8478+T*(-12.7512+T*(-0.001037+T*0.00000417)))) * arcsec2rad
	d = (1072260.70369 + T*(1602961601.2090+T*(-6.3706+T*(0.006593-T*0.00003169)))) * arcsec2rad
	om = (450160.398036 + T*(-6962890.5431+T*(7.4722+T*(0.007702-T*0.00005939)))) * arcsec2rad
	return
}

func meanObliquity(T float64) float64 {
	return (84381.448 + T*(-46.8150+T*(-0.00059+T*0.001813))) * arcsec2rad
}

type nutationTerm struct {
	nl, nlp, nf, nd, nom int
	s, sdot, cp          float64
	c, cdot, sp          float64
}

// Top 30 IAU 2000A luni-solar nutation terms by |s| amplitude (IERS
// Conventions 2003 Table 5.3a).
var nutationTerms = []nutationTerm{
	{0, 0, 0, 0, 1, -172064161, -174666, 33386, 92052331, 9086, 15377},
	{0, 0, 2, -2, 2, -13170906, -1675, -13696, 5730336, -3015, -4587},
	{0, 0, 2, 0, 2, -2276413, -234, 2796, 978459, -485, 1374},
	{0, 0, 0, 0, 2, 2074554, 207, -698, -897492, 470, -291},
	{0, 1, 0, 0, 0, 1475877, -3633, 11817, 73871, -184, -1924},
	{1, 0, 0, 0, 0, 711159, 73, -872, -6750, 0, 358},
	{0, 1, 2, -2, 2, -516821, 1226, -524, 224386, -677, -174},
	{0, 0, 2, 0, 1, -387298, -367, 380, 200728, 18, 318},
	{1, 0, 2, 0, 2, -301461, -36, 816, 129025, -63, 367},
	{0, -1, 2, -2, 2, 215829, -494, 111, -95929, 299, 132},
	{-1, 0, 0, 2, 0, 156994, 10, -168, -1235, 0, 82},
	{0, 0, 2, -2, 1, 128227, 137, 181, -68982, -9, 39},
	{-1, 0, 2, 0, 2, 123457, 11, 19, -53311, 32, -4},
	{0, 0, 0, 2, 0, 63384, 11, -150, -1220, 0, 29},
	{1, 0, 0, 0, 1, 63110, 63, 27, -33228, 0, -9},
	{-1, 0, 2, 2, 2, -59641, -11, 149, 25543, -11, 66},
	{-1, 0, 0, 0, 1, -57976, -63, -189, 31429, 0, -75},
	{1, 0, 2, 0, 1, -51613, -42, 129, 26366, 0, 78},
	{-2, 0, 0, 2, 0, -47722, 0, -18, 477, 0, -25},
	{-2, 0, 2, 0, 1, 45893, 50, 31, -24236, -10, 20},
	{0, 0, 2, 2, 2, -38571, -1, 158, 16452, -11, 68},
	{0, -2, 2, -2, 2, 32481, 0, 0, -13870, 0, 0},
	{2, 0, 2, 0, 2, -31046, -1, 131, 13238, -11, 59},
	{2, 0, 0, 0, 0, 29243, 0, -74, -609, 0, 13},
	{1, 0, 2, -2, 2, 28593, 0, -1, -12338, 10, -3},
	{0, 0, 2, 0, 0, 25887, 0, -66, -550, 0, 11},
	{0, 0, -2, 2, 0, 21783, 0, 13, -167, 0, 13},
	{-1, 0, 2, 0, 1, 20441, 21, 10, -10758, 0, -3},
	{0, 2, 0, 0, 0, 16707, -85, -10, 168, -1, 10},
	{0, 2, 2, -2, 2, -15794, 72, -16, 6850, -42, -5},
}

// nutationAngles computes nutation in longitude (dpsi) and obliquity
// (deps), in radians, using the 30 largest luni-solar terms.
func nutationAngles(T float64) (dpsiRad, depsRad float64) {
	l, lp, f, d, om := fundamentalArgs(T)

	var dpsi, deps float64
	for i := range nutationTerms {
		t := &nutationTerms[i]
		arg := float64(t.nl)*l + float64(t.nlp)*lp + float64(t.nf)*f +
			float64(t.nd)*d + float64(t.nom)*om
		sinArg, cosArg := math.Sincos(arg)
		dpsi += (t.s + t.sdot*T) * sinArg
		dpsi += t.cp * cosArg
		deps += (t.c + t.cdot*T) * cosArg
		deps += t.sp * sinArg
	}

	dpsiRad = dpsi * tenthUas2Rad
	depsRad = deps * tenthUas2Rad
	return
}

// NutationMatrix returns the rotation N. By default it transforms mean
// equinox -> true equinox of date (From2000 direction, matched against the
// already-precessed frame); Into2000 returns the transpose.
func NutationMatrix(ttJD float64, dir Direction) vector.RotationMatrix {
	T := (ttJD - j2000JD) / 36525.0
	dpsiRad, depsRad := nutationAngles(T)
	epsM := meanObliquity(T)
	epsT := epsM + depsRad

	sinDpsi, cosDpsi := math.Sincos(dpsiRad)
	sinEpsM, cosEpsM := math.Sincos(epsM)
	sinEpsT, cosEpsT := math.Sincos(epsT)

	// N: mean equinox of date -> true equinox of date.
	n := vector.RotationMatrix{
		{cosDpsi, -sinDpsi * cosEpsM, -sinDpsi * sinEpsM},
		{sinDpsi * cosEpsT, cosDpsi*cosEpsM*cosEpsT + sinEpsM*sinEpsT, cosDpsi*sinEpsM*cosEpsT - cosEpsM*sinEpsT},
		{sinDpsi * sinEpsT, cosDpsi*cosEpsM*sinEpsT - sinEpsM*cosEpsT, cosDpsi*sinEpsM*sinEpsT + cosEpsM*cosEpsT},
	}
	if dir == Into2000 {
		return n.Transpose()
	}
	return n
}

// PrecessionMatrix returns the rotation P. From2000 transforms J2000 ->
// mean equator of date; Into2000 returns the transpose (date -> J2000).
// IAU 2006 precession angles.
func PrecessionMatrix(ttJD float64, dir Direction) vector.RotationMatrix {
	T := (ttJD - j2000JD) / 36525.0

	zetaA := (2.650545 + 2306.083227*T + 0.2988499*T*T +
		0.01801828*T*T*T - 0.000005971*T*T*T*T) * arcsec2rad
	zA := (-2.650545 + 2306.077181*T + 1.0927348*T*T +
		0.01826837*T*T*T - 0.000028596*T*T*T*T) * arcsec2rad
	thetaA := (2004.191903*T - 0.4294934*T*T -
		0.04182264*T*T*T - 0.000007089*T*T*T*T) * arcsec2rad

	cosZetaA, sinZetaA := math.Cos(zetaA), math.Sin(zetaA)
	cosZA, sinZA := math.Cos(zA), math.Sin(zA)
	cosThetaA, sinThetaA := math.Cos(thetaA), math.Sin(thetaA)

	// P = Rz(-zA) . Ry(thetaA) . Rz(-zetaA): J2000 -> date.
	p := vector.RotationMatrix{
		{cosZA*cosThetaA*cosZetaA - sinZA*sinZetaA, -cosZA*cosThetaA*sinZetaA - sinZA*cosZetaA, -cosZA * sinThetaA},
		{sinZA*cosThetaA*cosZetaA + cosZA*sinZetaA, -sinZA*cosThetaA*sinZetaA + cosZA*cosZetaA, -sinZA * sinThetaA},
		{sinThetaA * cosZetaA, -sinThetaA * sinZetaA, cosThetaA},
	}
	if dir == Into2000 {
		return p.Transpose()
	}
	return p
}

// Gyration composes nutation and precession to rotate v between J2000 and
// the equator/equinox of date. Composition order depends on
// direction because the two directions are mutual inverses: J2000 -> date
// applies precession then nutation; date -> J2000 applies the inverse
// nutation then the inverse precession.
func Gyration(v vector.TerseVector, ttJD float64, dir Direction) vector.TerseVector {
	if dir == From2000 {
		p := PrecessionMatrix(ttJD, From2000)
		n := NutationMatrix(ttJD, From2000)
		return n.Apply(p.Apply(v))
	}
	n := NutationMatrix(ttJD, Into2000)
	p := PrecessionMatrix(ttJD, Into2000)
	return p.Apply(n.Apply(v))
}

// EclipticToEquatorialJ2000 rotates a J2000-mean-ecliptic vector to the
// J2000 equatorial (EQJ) frame, using the fixed J2000 mean obliquity.
func EclipticToEquatorialJ2000(v vector.TerseVector) vector.TerseVector {
	const oblSin = 0.3977771559319137062
	const oblCos = 0.9174820620691818140
	return vector.TerseVector{
		v[0],
		oblCos*v[1] - oblSin*v[2],
		oblSin*v[1] + oblCos*v[2],
	}
}

// EquatorialJ2000ToEcliptic is the inverse of EclipticToEquatorialJ2000.
func EquatorialJ2000ToEcliptic(v vector.TerseVector) vector.TerseVector {
	const oblSin = 0.3977771559319137062
	const oblCos = 0.9174820620691818140
	return vector.TerseVector{
		v[0],
		oblCos*v[1] + oblSin*v[2],
		-oblSin*v[1] + oblCos*v[2],
	}
}

// TrueEclipticOfDate rotates an EQD (true equator of date) vector into the
// ECT (true ecliptic of date) frame, using the true obliquity from e_tilt.
func TrueEclipticOfDate(v vector.TerseVector, ttJD float64) vector.TerseVector {
	et := EvalETilt(ttJD)
	eps := et.TrueOblDeg * deg2rad
	sinE, cosE := math.Sincos(eps)
	return vector.TerseVector{
		v[0],
		cosE*v[1] + sinE*v[2],
		-sinE*v[1] + cosE*v[2],
	}
}

// GalacticMatrix rotates ICRF (J2000) to Galactic System II (IAU 1958).
var GalacticMatrix = vector.RotationMatrix{
	{-0.054875539395742523, -0.87343710472759606, -0.48383499177002515},
	{0.49410945362774389, -0.44482959429757496, 0.74698224869989183},
	{-0.86766613568337381, -0.19807638961301985, 0.45598379452141991},
}

// ICRFToGalactic converts a J2000 Cartesian vector to galactic lat/lon
// (degrees, lon in [0,360)).
func ICRFToGalactic(v vector.TerseVector) vector.Spherical {
	g := GalacticMatrix.Apply(v)
	return vector.ToSpherical(g)
}
