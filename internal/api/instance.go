package api

import (
	"context"

	"github.com/windrosehq/windrose-go/internal/types"
)

// InstanceService exposes deployment-wide metadata that is the same
// for every workspace on the instance.
type InstanceService struct {
	client *Client
}

func (s *InstanceService) Config(ctx context.Context) (*types.InstanceConfig, error) {
	var out types.InstanceConfig
	err := s.client.get(ctx, "/api/instance/config", nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
