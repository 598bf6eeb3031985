package controller

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-console/internal/form"
	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
)

// OpenCreate opens an empty create form. Any state left over from a prior
// edit session is discarded first; stale edit data must never leak into a
// new create.
func (c *EntityList) OpenCreate() {
	c.form.OpenCreate()
	c.actionErr = ""
	c.fieldErrs = map[string]string{}
}

// OpenEdit opens the form populated from the entity with the given id. The
// row is looked up in the loaded page first and fetched from the API when
// not present (deep links land here).
func (c *EntityList) OpenEdit(ctx context.Context, id string) error {
	for _, item := range c.store.CurrentItems() {
		if item.ID() == id {
			c.form.OpenEdit(item)
			c.actionErr = ""
			c.fieldErrs = map[string]string{}
			return nil
		}
	}

	entity, err := c.api.Get(ctx, c.schema.EndpointBase, id)
	if err != nil {
		c.actionErr = appErrors.FromError(err).Message
		return err
	}
	c.form.OpenEdit(entity)
	c.actionErr = ""
	c.fieldErrs = map[string]string{}
	return nil
}

// CloseForm closes the modal, resetting the edit state to create/none.
func (c *EntityList) CloseForm() {
	c.form.Close()
	c.actionErr = ""
	c.fieldErrs = map[string]string{}
}

// EditState exposes the form's current mode and target.
func (c *EntityList) EditState() form.EditState {
	return c.form.State()
}

// SetField records raw input for one form field.
func (c *EntityList) SetField(key, raw string) {
	c.form.SetValue(key, raw)
}

// SetChecked records a boolean field's checked state.
func (c *EntityList) SetChecked(key string, checked bool) {
	c.form.SetChecked(key, checked)
}

// FieldValue returns the raw input currently held for key.
func (c *EntityList) FieldValue(key string) string {
	return c.form.Value(key)
}

// ValidationErrors returns the per-field messages from the last rejected
// save. The presentation layer must surface every entry.
func (c *EntityList) ValidationErrors() map[string]string {
	return c.fieldErrs
}

// Save collects and validates the draft, then creates or updates through
// the API. Validation failures never reach the network. On success the form
// closes and the page reloads; on server failure the form stays open with
// the draft intact and the server's message shown verbatim. A save while
// another mutation is in flight is ignored.
func (c *EntityList) Save(ctx context.Context) error {
	if c.closed || c.inFlight {
		return nil
	}

	draft := c.form.Collect()
	result := c.form.Validate(draft)
	if !result.Valid {
		c.fieldErrs = result.Errors
		return appErrors.Clone(appErrors.ErrValidation, "")
	}
	c.fieldErrs = map[string]string{}

	if c.transform != nil {
		if err := c.transform(draft, c.now()); err != nil {
			c.actionErr = appErrors.FromError(err).Message
			return err
		}
	}

	state := c.form.State()
	c.inFlight = true
	c.state = StateSubmitting
	defer func() {
		c.inFlight = false
		if c.state == StateSubmitting {
			c.state = StateLoaded
		}
	}()

	var err error
	if state.Mode == form.ModeEdit {
		_, err = c.api.Update(ctx, c.schema.EndpointBase, state.TargetID, draft)
	} else {
		_, err = c.api.Create(ctx, c.schema.EndpointBase, draft)
	}
	if c.closed {
		return nil
	}
	if err != nil {
		if !appErrors.IsAuthExpired(err) {
			c.actionErr = appErrors.FromError(err).Message
		}
		c.logger.Warn("save failed", zap.String("mode", string(state.Mode)), zap.Error(err))
		return err
	}

	c.form.Close()
	c.actionErr = ""
	c.state = StateLoaded
	c.inFlight = false
	return c.Load(ctx)
}

// Delete removes the entity with the given id, but only after the confirm
// callback approves. No confirmation, no request. On failure the entity
// stays listed; there is no optimistic removal.
func (c *EntityList) Delete(ctx context.Context, id string, confirm func() bool) error {
	if c.closed || c.inFlight {
		return nil
	}
	if confirm == nil || !confirm() {
		return nil
	}

	c.inFlight = true
	c.state = StateDeleting
	defer func() {
		c.inFlight = false
		if c.state == StateDeleting {
			c.state = StateLoaded
		}
	}()

	if err := c.api.Delete(ctx, c.schema.EndpointBase, id); err != nil {
		if c.closed {
			return nil
		}
		if !appErrors.IsAuthExpired(err) {
			c.actionErr = appErrors.FromError(err).Message
		}
		c.logger.Warn("delete failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if c.closed {
		return nil
	}

	c.actionErr = ""
	c.state = StateLoaded
	c.inFlight = false
	return c.Load(ctx)
}
