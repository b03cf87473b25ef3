package sri

// Longitudes de los documentos de identidad ecuatorianos.
const (
	CedulaLength = 10
	RUCLength    = 13
)

// Rango de códigos de provincia (dos primeros dígitos).
const (
	minProvince = 1
	maxProvince = 24
)

// Coeficientes módulo 11 para RUC (tercer dígito 6: sector público, 9: sociedades privadas).
var (
	publicRUCWeights  = [8]int{3, 2, 7, 6, 5, 4, 3, 2}
	privateRUCWeights = [9]int{4, 3, 2, 7, 6, 5, 4, 3, 2}
)

// ValidateCedula valida una cédula de persona natural (10 dígitos, módulo 10).
// Los dígitos en posiciones pares (0..8) se duplican restando 9 si superan 9;
// el verificador es (10 - suma%10) % 10 y debe coincidir con el dígito 9.
func ValidateCedula(s string) bool {
	digits, ok := parseDigits(s, CedulaLength)
	if !ok || !validProvince(digits) {
		return false
	}
	return cedulaCheckDigit(digits) == digits[9]
}

// ValidateRUC valida un Registro Único de Contribuyentes (13 dígitos).
// El tercer dígito selecciona el algoritmo:
//
//	0-5 persona natural: cédula embebida en 0..9 y establecimiento "001"
//	6   sector público:  módulo 11 sobre 0..7, verificador en posición 8
//	9   sociedad privada: módulo 11 sobre 0..8, verificador en posición 9
func ValidateRUC(s string) bool {
	digits, ok := parseDigits(s, RUCLength)
	if !ok || !validProvince(digits) {
		return false
	}
	switch t := digits[2]; {
	case t <= 5:
		if cedulaCheckDigit(digits[:CedulaLength]) != digits[9] {
			return false
		}
		return digits[10] == 0 && digits[11] == 0 && digits[12] == 1
	case t == 6:
		return mod11Matches(digits, publicRUCWeights[:], 8)
	case t == 9:
		return mod11Matches(digits, privateRUCWeights[:], 9)
	default:
		return false
	}
}

func cedulaCheckDigit(digits []int) int {
	var sum int
	for i := 0; i < 9; i++ {
		d := digits[i]
		if i%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return (10 - sum%10) % 10
}

// mod11Matches aplica los pesos a los primeros len(weights) dígitos y compara con digits[pos].
// Verificador 11 -> 0; verificador 10 -> inválido.
func mod11Matches(digits, weights []int, pos int) bool {
	var sum int
	for i, w := range weights {
		sum += digits[i] * w
	}
	v := 11 - sum%11
	switch v {
	case 11:
		v = 0
	case 10:
		return false
	}
	return v == digits[pos]
}

func validProvince(digits []int) bool {
	p := digits[0]*10 + digits[1]
	return p >= minProvince && p <= maxProvince
}

// parseDigits exige exactamente n caracteres ASCII '0'..'9'.
func parseDigits(s string, n int) ([]int, bool) {
	if len(s) != n {
		return nil, false
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return nil, false
		}
		out[i] = int(c - '0')
	}
	return out, true
}
