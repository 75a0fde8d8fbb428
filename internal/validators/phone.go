package validators

import "strings"

// NormalizePhone strips formatting from a phone number and returns it in
// "+<digits>" form. Russian numbers written with a leading 8 are rewritten
// to +7.
func NormalizePhone(phone string) (string, bool) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", false
	}

	var digits strings.Builder
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == '+' && i == 0:
		case r == ' ', r == '-', r == '(', r == ')', r == '.':
		default:
			return "", false
		}
	}

	d := digits.String()
	if len(d) == 11 && d[0] == '8' && !strings.HasPrefix(phone, "+") {
		d = "7" + d[1:]
	}
	if len(d) < 10 || len(d) > 15 {
		return "", false
	}

	return "+" + d, true
}
