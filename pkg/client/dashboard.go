package client

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/frahmantamala/workforce-admin/internal/employee"
	"github.com/frahmantamala/workforce-admin/internal/project"
	"github.com/frahmantamala/workforce-admin/internal/request"
	"github.com/frahmantamala/workforce-admin/internal/task"
)

// Dashboard is everything a signed-in actor sees on their landing page.
// Collections are already scoped by the server to what the actor may view.
type Dashboard struct {
	Me       *employee.Employee
	Projects []*project.Overview
	Tasks    []*task.Task
	Requests []*request.Request
}

// LoadDashboard fetches the collections concurrently. The first failure
// cancels the remaining calls.
func (c *Client) LoadDashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		me, err := c.Me(gctx)
		d.Me = me
		return err
	})
	g.Go(func() error {
		projects, err := c.Projects(gctx)
		d.Projects = projects
		return err
	})
	g.Go(func() error {
		tasks, err := c.MyTasks(gctx)
		d.Tasks = tasks
		return err
	})
	g.Go(func() error {
		requests, err := c.Requests(gctx)
		d.Requests = requests
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
