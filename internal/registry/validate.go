package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/patchgrid/internal/ctxlog"
)

// ValidateRegistry checks every registered operator and reports all
// violations in one error.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.Names() {
		op, _ := r.Lookup(name)
		if op.Name != name {
			errs = append(errs, fmt.Sprintf("operator registered as '%s' is named '%s'", name, op.Name))
			continue
		}
		if err := op.Validate(); err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if _, err := op.DefaultValues(); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry validated.", "operators", r.Len())
	return nil
}
