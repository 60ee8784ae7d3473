package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sojournii/sojournii/internal/tracker"
)

func (s *Server) getWeek(c *fiber.Ctx) error {
	summary, err := s.tracker.Week(c.UserContext(), currentUser(c), c.Query("date"))
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// listDays defaults to the current week when from and to are omitted.
func (s *Server) listDays(c *fiber.Ctx) error {
	ctx, user := c.UserContext(), currentUser(c)
	from, to := c.Query("from"), c.Query("to")
	if from == "" && to == "" {
		week, err := s.tracker.Week(ctx, user, "")
		if err != nil {
			return err
		}
		from, to = week.Window.StartDate, week.Window.EndDate
	}
	days, err := s.tracker.ListDays(ctx, user, from, to)
	if err != nil {
		return err
	}
	if days == nil {
		return c.JSON([]any{})
	}
	return c.JSON(days)
}

func (s *Server) getDay(c *fiber.Ctx) error {
	rec, err := s.tracker.GetDay(c.UserContext(), currentUser(c), c.Params("date"))
	if err != nil {
		return err
	}
	return c.JSON(rec)
}

func (s *Server) putDay(c *fiber.Ctx) error {
	var in tracker.DayInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed day: "+err.Error())
	}
	in.Date = c.Params("date")
	rec, err := s.tracker.LogDay(c.UserContext(), currentUser(c), in)
	if err != nil {
		return err
	}
	return c.JSON(rec)
}

func (s *Server) deleteDay(c *fiber.Ctx) error {
	if err := s.tracker.DeleteDay(c.UserContext(), currentUser(c), c.Params("date")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) getSettings(c *fiber.Ctx) error {
	st, err := s.tracker.Settings(c.UserContext(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(st)
}

func (s *Server) putSettings(c *fiber.Ctx) error {
	var in tracker.SettingsInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed settings: "+err.Error())
	}
	st, err := s.tracker.UpdateSettings(c.UserContext(), currentUser(c), in)
	if err != nil {
		return err
	}
	return c.JSON(st)
}

func (s *Server) getRetro(c *fiber.Ctx) error {
	r, err := s.tracker.Retro(c.UserContext(), currentUser(c), c.Query("date"))
	if err != nil {
		return err
	}
	return c.JSON(r)
}

func (s *Server) putRetro(c *fiber.Ctx) error {
	var in tracker.RetroInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed retrospective: "+err.Error())
	}
	r, err := s.tracker.SaveRetro(c.UserContext(), currentUser(c), c.Query("date"), in)
	if err != nil {
		return err
	}
	return c.JSON(r)
}
