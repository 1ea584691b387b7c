package rest

import (
	"net/http"
	"strings"

	"github.com/sheikh-saqib/haulage-ledger/internal/models"
)

// RoleHeader carries the navigation role of the caller.
const RoleHeader = "X-User-Role"

// RequireFinanceRole lets through only roles that may see the finance tab.
func RequireFinanceRole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := models.Role(strings.ToUpper(strings.TrimSpace(r.Header.Get(RoleHeader))))
		if role == "" {
			writeError(w, http.StatusUnauthorized, "missing "+RoleHeader+" header")
			return
		}
		if !role.CanAccessFinance() {
			writeError(w, http.StatusForbidden, "role "+string(role)+" cannot access finance")
			return
		}
		next.ServeHTTP(w, r)
	})
}
