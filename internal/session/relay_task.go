package session

import (
	"encoding/json"
	"errors"
	"fmt"
)

// handleTaskUpdate merges a field-level update into one task of a project
// aggregate. The store round trip runs off the run loop; a missing project
// or task aborts only this request and is reported back to the caller.
func (h *Hub) handleTaskUpdate(conn *Connection, data json.RawMessage) error {
	var p TaskUpdatePayload
	if err := decode(data, &p); err != nil {
		return err
	}

	go h.applyTaskUpdate(conn, p)
	return nil
}

// applyTaskUpdate fetches the project aggregate, merges the update into the
// addressed task, persists the whole aggregate back and relays the update to
// the entire room. Failures never touch shared session state.
func (h *Hub) applyTaskUpdate(conn *Connection, p TaskUpdatePayload) {
	ctx, cancel := h.storeContext()
	defer cancel()

	project, err := h.stores.Projects.Get(ctx, p.ProjectID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			err = fmt.Errorf("%w: %s", ErrProjectNotFound, p.ProjectID)
		} else {
			err = fmt.Errorf("load project %s: %w", p.ProjectID, err)
		}
		h.reportFailure(conn, EventTaskUpdate, err)
		return
	}

	task := project.Task(p.TaskID)
	if task == nil {
		h.reportFailure(conn, EventTaskUpdate, fmt.Errorf("%w: %s in project %s", ErrTaskNotFound, p.TaskID, p.ProjectID))
		return
	}
	task.Apply(p.Updates)

	if err := h.stores.Projects.Replace(ctx, project); err != nil {
		// Persistence failure: log and relay anyway, same policy as the
		// document relay.
		h.logger.Error("project persist failed", "projectID", p.ProjectID, "error", err)
	}

	h.broadcast(p.ProjectID, EventTaskUpdated, TaskUpdatedData{
		TaskID:  p.TaskID,
		Updates: p.Updates,
	}, "", true)
}
