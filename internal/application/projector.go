package application

import (
	"github.com/openvaa/vaa-matching/internal/domain"
	"github.com/openvaa/vaa-matching/internal/ports"
)

var _ ports.Projector = IdentityProjector{}

// IdentityProjector returns positions unchanged. It is the default
// projector of a Matcher.
type IdentityProjector struct{}

// Project implements ports.Projector.
func (IdentityProjector) Project(positions []domain.Position) ([]domain.Position, error) {
	return positions, nil
}
