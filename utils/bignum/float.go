package bignum

import (
	"fmt"
	"math/big"

	"github.com/ALTree/bigfloat"
)

const pi = "3.1415926535897932384626433832795028841971693993751058209749445923078164062862089986280348253421170679821480865132823066470938446095505822317253594081284811174502841027019385211055596446229489549303819644288109756659334461284756482337867831652712019091456485669234603486104543266482133936072602491412737245870066063155881748815209209628292540917153643678925903600113305305488204665213841469519415116094330572703657595919530921861173819326117931051185480744623799627495673518857527248912279381830119491298336733624406566430860213949463952247371907021798609437027705392171762931767523846748184676694051320005681271452635608277857713427577896091736371787214684409012249534301465495853710507922796892589235420199561121290219608640344181598136297747713099605187072113499999983729780499510597317328160963185950244594553469083026425223082533446850352619311881710100031378387528865875332083814206171776691473035982534904287554687311595628638823537875937519577818577805321712268066130019278766111959092164201989"
const log2 = "0.693147180559945309417232121458176568075500134360255254120680009493393621969694715605863326996418687542001481020570685733685520235758130557032670751635075961930727570828371435190307038623891673471123350115364497955239120475172681574932065155524734139525882950453007095326366642654104239157814952043740430385500801944170641671518644712839968171784546957026271631064546150257207402481637773389638550695260668341137273873722928956493547025762652098859693201965058554764703306793654432547632744951250406069438147104689946506220167720424524529612687946546193165174681392672504103802546259656869144192871608293803172714367782654877566485085674077648451464439940461422603193096735402574446070308096085047486638523138181676751438667476647890881437141985494231519973548803751658612753529166100071053558249879414729509293113897155998205654392871700072180857610252368892132449713893203784393530887748259701715591070882368362758984258918535302436342143670611892367891923723146723217205340164925687274778234453534764811494186423867767744060695626573796008670762571991847340226514628379048830620330611446300737194890027436439650025809365194430411911506080948793067865158870900605203468429736193841289652556539686022194122924207574321757489097706753"

// Pi returns Pi with prec bits of precision.
func Pi(prec uint) *big.Float {
	pi, _ := new(big.Float).SetPrec(prec).SetString(pi)
	return pi
}

// Log2 returns ln(2) with prec bits of precision.
func Log2(prec uint) *big.Float {
	log2, _ := new(big.Float).SetPrec(prec).SetString(log2)
	return log2
}

// NewFloat creates a new big.Float element with "prec" bits of precision.
// Valid types for x are: int, int64, uint, uint64, float64, string, *big.Int, *big.Rat or *big.Float.
func NewFloat(x interface{}, prec uint) (y *big.Float) {

	y = new(big.Float)
	y.SetPrec(prec)

	if x == nil {
		return
	}

	switch x := x.(type) {
	case int:
		y.SetInt64(int64(x))
	case int64:
		y.SetInt64(x)
	case uint:
		y.SetUint64(uint64(x))
	case uint64:
		y.SetUint64(x)
	case float64:
		y.SetFloat64(x)
	case string:
		if _, ok := y.SetString(x); !ok {
			panic(fmt.Errorf("invalid x: cannot parse %q as a floating point number", x))
		}
	case *big.Int:
		y.SetInt(x)
	case *big.Rat:
		y.SetRat(x)
	case *big.Float:
		y.Set(x)
	default:
		panic(fmt.Errorf("invalid x.(type): valid types are int, int64, uint, uint64, float64, string, *big.Int, *big.Rat or *big.Float but is %T", x))
	}

	return
}

// ParseFloat parses s at prec bits of precision.
// Unlike NewFloat, it reports malformed input as an error.
func ParseFloat(s string, prec uint) (*big.Float, error) {
	y, ok := new(big.Float).SetPrec(prec).SetString(s)
	if !ok {
		return nil, fmt.Errorf("cannot ParseFloat: invalid number %q", s)
	}
	return y, nil
}

// Cos is an iterative arbitrary precision computation of Cos(x)
// Iterative process with an error of ~10^{−0.60206*k} = (1/4)^k after k iterations.
// ref : Johansson, B. Tomas, An elementary algorithm to evaluate trigonometric functions to high precision, 2018
func Cos(x *big.Float) (cosx *big.Float) {
	tmp := new(big.Float)

	t := NewFloat(0.5, x.Prec())
	half := new(big.Float).Copy(t)

	for i := uint(1); i < (x.Prec()>>1)-1; i++ {
		t.Mul(t, half)
	}

	s := new(big.Float).Mul(x, t)
	s.Mul(s, x)
	s.Mul(s, t)

	four := NewFloat(4.0, x.Prec())

	for i := uint(1); i < x.Prec()>>1; i++ {
		tmp.Sub(four, s)
		s.Mul(s, tmp)
	}

	cosx = new(big.Float).Quo(s, NewFloat(2.0, x.Prec()))
	cosx.Sub(NewFloat(1.0, x.Prec()), cosx)
	return
}

// Sin returns sin(x) = cos(x - pi/2).
func Sin(x *big.Float) (sinx *big.Float) {
	halfPi := Pi(x.Prec())
	halfPi.Quo(halfPi, new(big.Float).SetInt64(2))
	return Cos(new(big.Float).Sub(x, halfPi))
}

// Log return ln(x) with x.Prec() bits.
func Log(x *big.Float) (ln *big.Float) {
	return bigfloat.Log(x)
}

// Exp returns exp(x) with x.Prec() bits.
func Exp(x *big.Float) (exp *big.Float) {
	return bigfloat.Exp(x)
}

// Pow returns x^y
func Pow(x, y *big.Float) (pow *big.Float) {
	return bigfloat.Pow(x, y)
}

// Sqrt returns sqrt(x) with x.Prec() bits.
func Sqrt(x *big.Float) (sqrt *big.Float) {
	return bigfloat.Sqrt(x)
}

// guardBits returns the number of extra bits absorbing the cancellation of
// 1 + x or exp(x) - 1 for small x.
func guardBits(x *big.Float) uint {
	if x.Sign() == 0 {
		return 0
	}
	if e := x.MantExp(nil); e < 0 {
		return uint(-e) + 16
	}
	return 16
}

// Expm1 returns exp(x) - 1 with x.Prec() bits, without cancellation for small x.
func Expm1(x *big.Float) (y *big.Float) {

	prec := x.Prec()

	if x.Sign() == 0 {
		return new(big.Float).SetPrec(prec)
	}

	wprec := prec + guardBits(x)

	y = Exp(new(big.Float).SetPrec(wprec).Set(x))
	y.Sub(y, NewFloat(1, wprec))

	return new(big.Float).SetPrec(prec).Set(y)
}

// Log1p returns log(1 + x) with x.Prec() bits, without cancellation for small x.
func Log1p(x *big.Float) (y *big.Float) {

	prec := x.Prec()

	if x.Sign() == 0 {
		return new(big.Float).SetPrec(prec)
	}

	y = NewFloat(1, prec+guardBits(x))
	y.Add(y, x)

	return new(big.Float).SetPrec(prec).Set(Log(y))
}

// SinH returns hyperbolic sin(x) with x.Prec() bits.
// It evaluates sinh(|x|) = u(u+2)/(2(u+1)) with u = exp(|x|) - 1, which has
// no cancellation, and restores the sign.
func SinH(x *big.Float) (sinh *big.Float) {

	prec := x.Prec()

	if x.Sign() == 0 {
		return new(big.Float).SetPrec(prec)
	}

	wprec := prec + 16

	u := Expm1(new(big.Float).SetPrec(wprec).Abs(x))

	sinh = new(big.Float).SetPrec(wprec).Add(u, NewFloat(2, wprec))
	sinh.Mul(sinh, u)

	den := new(big.Float).SetPrec(wprec).Add(u, NewFloat(1, wprec))
	den.Add(den, den)
	sinh.Quo(sinh, den)

	if x.Sign() < 0 {
		sinh.Neg(sinh)
	}

	return new(big.Float).SetPrec(prec).Set(sinh)
}

// CosH returns hyperbolic cos(x) with x.Prec() bits.
func CosH(x *big.Float) (cosh *big.Float) {
	cosh = Exp(x)
	tmp := new(big.Float).Quo(NewFloat(1, x.Prec()), cosh)
	cosh.Add(cosh, tmp)
	cosh.Quo(cosh, NewFloat(2, x.Prec()))
	return
}

// TanH returns hyperbolic tan(x) with x.Prec() bits.
// It evaluates tanh(|x|) = u/(u+2) with u = exp(2|x|) - 1 and restores the sign.
func TanH(x *big.Float) (tanh *big.Float) {

	prec := x.Prec()

	if x.Sign() == 0 {
		return new(big.Float).SetPrec(prec)
	}

	wprec := prec + 16

	u := new(big.Float).SetPrec(wprec).Abs(x)
	u = Expm1(u.Add(u, u))

	tanh = new(big.Float).SetPrec(wprec).Add(u, NewFloat(2, wprec))
	tanh.Quo(u, tanh)

	if x.Sign() < 0 {
		tanh.Neg(tanh)
	}

	return new(big.Float).SetPrec(prec).Set(tanh)
}

// ArcTan returns atan(x) with x.Prec() bits.
// The argument is halved with atan(x) = 2*atan(x/(1+sqrt(1+x^2))) until it is
// small enough for the Taylor series to converge quickly.
func ArcTan(x *big.Float) (atan *big.Float) {

	prec := x.Prec()

	// Guard bits for the reductions.
	wprec := prec + 32

	one := NewFloat(1, wprec)
	y := NewFloat(x, wprec)
	tmp := new(big.Float).SetPrec(wprec)

	var halvings uint
	for halvings = 0; halvings < 8; halvings++ {
		tmp.Mul(y, y)
		tmp.Add(tmp, one)
		tmp = Sqrt(tmp)
		tmp.Add(tmp, one)
		y.Quo(y, tmp)
	}

	// atan(y) = y - y^3/3 + y^5/5 - ...
	y2 := new(big.Float).Mul(y, y)
	term := new(big.Float).Set(y)
	sum := new(big.Float).Set(y)
	eps := new(big.Float).SetMantExp(NewFloat(1, wprec), -int(wprec))

	for k := int64(3); ; k += 2 {
		term.Mul(term, y2)
		term.Neg(term)
		tmp.Quo(term, NewFloat(k, wprec))
		sum.Add(sum, tmp)
		if new(big.Float).Abs(tmp).Cmp(eps) < 0 {
			break
		}
	}

	sum.SetMantExp(sum, int(halvings))

	return new(big.Float).SetPrec(prec).Set(sum)
}

// Sigmoid returns 1/(1+exp(-x)) with x.Prec() bits.
func Sigmoid(x *big.Float) (y *big.Float) {
	z := new(big.Float).Neg(x)
	z = Exp(z)
	z.Add(z, NewFloat(1, x.Prec()))
	y = NewFloat(1, x.Prec())
	y.Quo(y, z)
	return
}

// Sign returns -1, 0 or 1 as a big.Float of the same precision as x.
func Sign(x *big.Float) (y *big.Float) {
	return NewFloat(x.Sign(), x.Prec())
}
