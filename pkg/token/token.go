// Package token decodifica tokens de acceso emitidos por el proveedor de
// identidad y extrae los permisos del payload.
//
// IMPORTANTE: aquí NO se verifica la firma. El token solo se decodifica para
// decidir qué pantallas mostrar; la autorización real la hace el backend en
// cada request. Un token manipulado como mucho muestra una pantalla que el
// backend igualmente rechazará con 403.
package token

import (
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Decode decodifica el payload del token sin validar la firma.
// Retorna error si el token no tiene las 3 partes de un JWT o el payload no
// es JSON válido; los callers tratan ese caso como "sin permisos, expirado".
func Decode(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Permissions extrae la lista de permisos del token.
//
// El proveedor (Auth0) puede guardarlos en distintos claims; se respeta este
// orden de precedencia:
//  1. claim "permissions" como lista de strings
//  2. claim "scope" como string separado por espacios
//  3. cualquier claim cuyo nombre contenga "permissions" (namespaces del
//     vendor, ej. "https://acme/permissions") cuyo valor sea una lista
//
// Un token indecodificable produce lista vacía, nunca panic ni error.
func Permissions(tokenString string) []string {
	claims, err := Decode(tokenString)
	if err != nil {
		return nil
	}

	if perms := stringList(claims["permissions"]); perms != nil {
		return perms
	}

	if scope, ok := claims["scope"].(string); ok && scope != "" {
		var perms []string
		for _, s := range strings.Split(scope, " ") {
			if s != "" {
				perms = append(perms, s)
			}
		}
		return perms
	}

	// Claims con namespace: se ordenan las keys para que "el primero que
	// matchea" sea determinista (el orden de iteración de un map no lo es).
	keys := make([]string, 0, len(claims))
	for k := range claims {
		if k != "permissions" && strings.Contains(k, "permissions") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if perms := stringList(claims[k]); perms != nil {
			return perms
		}
	}

	return nil
}

// stringList convierte un valor de claim a []string si es una lista de
// strings; cualquier otra forma retorna nil.
func stringList(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	perms := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil
		}
		perms = append(perms, s)
	}
	return perms
}

// HasPermission verifica si el token tiene un permiso específico.
func HasPermission(tokenString, permission string) bool {
	for _, p := range Permissions(tokenString) {
		if p == permission {
			return true
		}
	}
	return false
}

// HasAny verifica si el token tiene al menos uno de los permisos indicados.
func HasAny(tokenString string, permissions []string) bool {
	for _, p := range permissions {
		if HasPermission(tokenString, p) {
			return true
		}
	}
	return false
}

// HasAll verifica si el token tiene todos los permisos indicados.
func HasAll(tokenString string, permissions []string) bool {
	for _, p := range permissions {
		if !HasPermission(tokenString, p) {
			return false
		}
	}
	return true
}

// IsExpired indica si el token está expirado. Un token sin claim "exp" o
// indecodificable se considera expirado.
func IsExpired(tokenString string) bool {
	return isExpiredAt(tokenString, time.Now())
}

func isExpiredAt(tokenString string, now time.Time) bool {
	claims, err := Decode(tokenString)
	if err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Unix() < now.Unix()
}

// UserInfo información básica del operador contenida en el token.
type UserInfo struct {
	Sub   string
	Email string
	Name  string
}

// User extrae la información del operador para mostrar en cabecera.
// Retorna nil si el token no se puede decodificar.
func User(tokenString string) *UserInfo {
	claims, err := Decode(tokenString)
	if err != nil {
		return nil
	}
	info := &UserInfo{}
	info.Sub, _ = claims["sub"].(string)
	info.Email, _ = claims["email"].(string)
	info.Name, _ = claims["name"].(string)
	return info
}

// FromAuthorizationHeader extrae el token de un header "Bearer <token>".
// Retorna cadena vacía si el formato no es el esperado.
func FromAuthorizationHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
