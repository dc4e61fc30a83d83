package pagerank

import "golang.org/x/xerrors"

var (
	// ErrInvalidPage is returned when a page is not part of the link graph.
	ErrInvalidPage = xerrors.New("invalid page")

	// ErrInvalidArgument is returned when an estimator receives an empty
	// graph, a non-positive sample count or a damping factor outside [0, 1].
	ErrInvalidArgument = xerrors.New("invalid argument")

	// ErrConvergence is returned by the iterative estimator when the
	// scores fail to stabilize within the configured iteration cap.
	ErrConvergence = xerrors.New("PageRank scores did not converge")
)
