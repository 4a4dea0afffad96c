// Package identity canoniza email y teléfono en claves estables de comparación.
// Las claves normalizadas solo se usan para igualdad; nunca se muestran.
package identity

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Prefijos de las claves de bloqueo por identidad.
const (
	emailKeyPrefix = "email:"
	phoneKeyPrefix = "phone:"
)

// NormalizeEmail recorta espacios y pasa a minúsculas. No valida la sintaxis.
func NormalizeEmail(s string) string {
	// cases.Caser guarda estado: uno por llamada.
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// NormalizePhone conserva solo los dígitos, en su orden.
// No se canoniza el prefijo de país: "+1 555-0100" y "15550100" coinciden, "5550100" no.
func NormalizePhone(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Keys claves normalizadas de un contacto.
type Keys struct {
	Email string
	Phone string
}

// KeysOf normaliza email y teléfono.
func KeysOf(email, phone string) Keys {
	return Keys{Email: NormalizeEmail(email), Phone: NormalizePhone(phone)}
}

// IsEmpty sin email ni teléfono: el contacto nunca coincidirá con otro.
func (k Keys) IsEmpty() bool { return k.Email == "" && k.Phone == "" }

// LockKeys claves de exclusión mutua para el upsert, ordenadas y sin vacías.
func (k Keys) LockKeys() []string {
	keys := make([]string, 0, 2)
	if k.Email != "" {
		keys = append(keys, emailKeyPrefix+k.Email)
	}
	if k.Phone != "" {
		keys = append(keys, phoneKeyPrefix+k.Phone)
	}
	sort.Strings(keys)
	return keys
}

// Clean recorta espacios y elimina caracteres de control; entrada inválida queda vacía.
func Clean(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// CleanMultiline como Clean pero conserva saltos de línea (direcciones, notas).
func CleanMultiline(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}
		if r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
