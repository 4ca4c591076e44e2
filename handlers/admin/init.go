// handlers/admin/init.go - Admin handler wiring
package admin

import (
	"pitchdesk/config"
	"pitchdesk/services"
)

var (
	cfg    *config.Config
	store  services.Store
	review *services.Review
)

// Init wires the shared services into the admin handlers. Must be called
// once at startup before routes are served.
func Init(c *config.Config, s services.Store, r *services.Review) {
	cfg = c
	store = s
	review = r
}
