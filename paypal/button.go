package paypal

import (
	"context"

	"github.com/mutinyhq/paypal-go/ordered"
)

// CreateButton creates a hosted payment button via the NVP BMCreateButton
// method. vars holds L_BUTTONVAR entries (one "name=value" string per
// button variable) and is omitted from the payload when nil.
func (c *Client) CreateButton(ctx context.Context, code, buttonType string, vars []string) (*ordered.Map, error) {
	data := ordered.New()
	data.Set("BUTTONCODE", ordered.String(code))
	data.Set("BUTTONTYPE", ordered.String(buttonType))
	if vars != nil {
		data.Set("L_BUTTONVAR", ordered.Strings(vars...))
	}

	return c.NVPRequest(ctx, "BMCreateButton", data)
}
