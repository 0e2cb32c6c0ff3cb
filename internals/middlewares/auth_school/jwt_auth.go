package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	helper "pendidikanku_backend/internals/helpers"
	helperAuth "pendidikanku_backend/internals/helpers/auth"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // pakai cookie access_token jika tidak ada Bearer
}

// AuthJWT verifikasi token HMAC lalu isi locals yang dibaca helperAuth.
// Token diterbitkan service identity (di luar repo ini).
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret wajib diisi")
	}

	return func(c *fiber.Ctx) error {
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid token")
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid token claims")
		}

		// user_id: id / sub / user_id (urutan preferensi)
		for _, k := range []string{"id", "sub", "user_id"} {
			if v := strClaim(claims, k); v != "" {
				c.Locals(helperAuth.LocUserID, v)
				break
			}
		}
		if sid := strClaim(claims, "student_id"); sid != "" {
			c.Locals(helperAuth.LocStudentID, sid)
		}

		c.Locals(helperAuth.LocRolesGlobal, readStringSlice(claims["roles_global"]))
		c.Locals(helperAuth.LocSchoolRoles, readSchoolRoles(claims["school_roles"]))

		switch t := claims["is_owner"].(type) {
		case bool:
			c.Locals(helperAuth.LocIsOwner, t)
		case string:
			s := strings.ToLower(strings.TrimSpace(t))
			c.Locals(helperAuth.LocIsOwner, s == "true" || s == "1" || s == "yes")
		}

		return c.Next()
	}
}

func strClaim(m jwt.MapClaims, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// []string atau []any → []string (lowercase, tanpa elemen kosong)
func readStringSlice(v any) []string {
	out := make([]string, 0)
	add := func(s string) {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			add(s)
		}
	case []any:
		for _, it := range t {
			if s, ok := it.(string); ok {
				add(s)
			}
		}
	}
	return out
}

// school_roles: [{"school_id": "...", "roles": ["teacher", ...]}]
func readSchoolRoles(v any) []helperAuth.SchoolRolesEntry {
	out := make([]helperAuth.SchoolRolesEntry, 0)
	arr, ok := v.([]any)
	if !ok {
		return out
	}
	for _, it := range arr {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		s, _ := m["school_id"].(string)
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			continue
		}
		out = append(out, helperAuth.SchoolRolesEntry{
			SchoolID: id,
			Roles:    readStringSlice(m["roles"]),
		})
	}
	return out
}
