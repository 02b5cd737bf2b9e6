// Package partition: source contract and sentinel errors.
package partition

import (
	"errors"

	"github.com/katalvlaran/hypflow/fem"
)

// Sentinel errors for group construction.
var (
	// ErrNilSource indicates a nil global discretization.
	ErrNilSource = errors.New("partition: source must not be nil")
	// ErrBadRankCount indicates a rank count below one or above the dof count.
	ErrBadRankCount = errors.New("partition: rank count must be in [1, dofs]")
)

// Source is the global discretization a Group splits: the neighbor
// topology and the assembled operator data, over one global index space.
// *grid.Grid satisfies this contract.
type Source interface {
	fem.Topology
	fem.Assembly
}
