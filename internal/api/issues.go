package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/windrosehq/windrose-go/internal/types"
)

// IssueService manages work items inside a project.
type IssueService struct {
	client *Client
}

// IssueListOptions narrow an issue listing.
type IssueListOptions struct {
	StateID  string
	Priority types.Priority
	SprintID string
	ModuleID string
	LabelID  string
}

func (o IssueListOptions) values() url.Values {
	q := url.Values{}
	if o.StateID != "" {
		q.Set("state_id", o.StateID)
	}
	if o.Priority != "" {
		q.Set("priority", string(o.Priority))
	}
	if o.SprintID != "" {
		q.Set("sprint_id", o.SprintID)
	}
	if o.ModuleID != "" {
		q.Set("module_id", o.ModuleID)
	}
	if o.LabelID != "" {
		q.Set("label_id", o.LabelID)
	}
	return q
}

func (s *IssueService) List(ctx context.Context, workspace, project string, opts IssueListOptions) ([]types.Issue, error) {
	var out []types.Issue
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/issues", workspace, project), opts.values(), &out)
	return out, err
}

func (s *IssueService) Get(ctx context.Context, workspace, project, id string) (*types.Issue, error) {
	var out types.Issue
	err := s.client.get(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/issues/%s", workspace, project, id), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *IssueService) Create(ctx context.Context, workspace, project string, issue types.Issue) (*types.Issue, error) {
	var out types.Issue
	err := s.client.post(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/issues", workspace, project), issue, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *IssueService) Update(ctx context.Context, workspace, project, id string, patch types.IssuePatch) (*types.Issue, error) {
	var out types.Issue
	err := s.client.patch(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/issues/%s", workspace, project, id), patch, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *IssueService) Delete(ctx context.Context, workspace, project, id string) error {
	return s.client.delete(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/issues/%s", workspace, project, id))
}

// Archive moves an issue out of active views without deleting it.
func (s *IssueService) Archive(ctx context.Context, workspace, project, id string) (*types.Issue, error) {
	var out types.Issue
	err := s.client.post(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/issues/%s/archive", workspace, project, id), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Restore brings an archived issue back.
func (s *IssueService) Restore(ctx context.Context, workspace, project, id string) (*types.Issue, error) {
	var out types.Issue
	err := s.client.post(ctx, fmt.Sprintf("/api/workspaces/%s/projects/%s/issues/%s/restore", workspace, project, id), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// BulkMove moves issues to another project in one call. The backend
// endpoint does not exist yet; this resolves as a successful no-op so
// callers can keep their flow wired until it ships.
func (s *IssueService) BulkMove(ctx context.Context, workspace, project, targetProject string, ids []string) error {
	return nil
}
