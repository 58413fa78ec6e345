package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"

	"KidFlex/internal/middleware"
	"KidFlex/internal/model/dto"
	"KidFlex/internal/service"
	pkgerrors "KidFlex/pkg/errors"
	"KidFlex/pkg/response"
)

const (
	defaultWatchTimeout = 25 * time.Second
	maxWatchTimeout     = 55 * time.Second
)

// GetDayPreferences returns this week's voting snapshot.
// GET /v1/day-preferences
func GetDayPreferences(ctx context.Context, c *app.RequestContext) {
	response.Success(ctx, c, service.Preference().Get(ctx))
}

// SetDayPreference records one participant's weekend day vote.
// PUT /v1/day-preferences/:participant
func SetDayPreference(ctx context.Context, c *app.RequestContext) {
	if _, ok := middleware.GetUserID(ctx, c); !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	participant := c.Param("participant")

	var req dto.SetPreferenceRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	snapshot, err := service.Preference().SetPreference(ctx, participant, req.Day)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, snapshot)
}

// WatchDayPreferences long-polls for voting changes. The first snapshot is
// returned immediately unless the client passes since=<updatedAt> from its
// previous response, in which case the request parks until a newer snapshot
// arrives or the timeout lapses.
// GET /v1/day-preferences/watch?since=<RFC3339>&timeout=<seconds>
func WatchDayPreferences(ctx context.Context, c *app.RequestContext) {
	timeout := defaultWatchTimeout
	if raw := c.Query("timeout"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
			if timeout > maxWatchTimeout {
				timeout = maxWatchTimeout
			}
		}
	}

	var since time.Time
	if raw := c.Query("since"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			since = parsed
		}
	}

	watchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch, stop, err := service.Preference().Subscribe(watchCtx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	defer stop()

	for {
		select {
		case <-watchCtx.Done():
			// Timed out without a newer snapshot. Hand back the current
			// state so the client can re-arm with a fresh since value.
			response.SuccessWithMeta(ctx, c, service.Preference().Get(ctx), map[string]interface{}{
				"timeout": true,
			})
			return
		case snapshot, ok := <-ch:
			if !ok {
				response.Success(ctx, c, service.Preference().Get(ctx))
				return
			}
			if !since.IsZero() && !snapshot.UpdatedAt.After(since) {
				continue
			}
			response.Success(ctx, c, snapshot)
			return
		}
	}
}
