package sri

import "fmt"

// AccessKeyLength es la longitud de la clave de acceso con su dígito verificador.
const (
	AccessKeyBaseLength = 48
	AccessKeyLength     = AccessKeyBaseLength + 1
)

// pesos cíclicos del módulo 11, aplicados desde la posición 0.
var accessKeyWeights = [6]int{2, 3, 4, 5, 6, 7}

// AccessKeyCheckDigit calcula el dígito verificador módulo 11 de una base de 48 dígitos.
// residuo 0 -> 0, residuo 1 -> 1, en otro caso 11 - residuo.
func AccessKeyCheckDigit(base string) (byte, error) {
	digits, ok := parseDigits(base, AccessKeyBaseLength)
	if !ok {
		return 0, fmt.Errorf("sri: la base de la clave de acceso debe tener %d dígitos, se recibió %q", AccessKeyBaseLength, base)
	}
	return checkDigit(digits), nil
}

// ValidateAccessKey verifica longitud, contenido numérico y dígito verificador de una clave de 49 dígitos.
func ValidateAccessKey(key string) bool {
	digits, ok := parseDigits(key, AccessKeyLength)
	if !ok {
		return false
	}
	return int(checkDigit(digits[:AccessKeyBaseLength])-'0') == digits[AccessKeyBaseLength]
}

func checkDigit(digits []int) byte {
	var sum int
	for i, d := range digits {
		sum += d * accessKeyWeights[i%len(accessKeyWeights)]
	}
	switch r := sum % 11; r {
	case 0, 1:
		return byte('0' + r)
	default:
		return byte('0' + 11 - r)
	}
}
