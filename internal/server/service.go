// Package server exposes the simulator over gRPC and HTTP JSON. Both
// transports share one Service and the same JSON request shapes.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/xtding233/hoops-sim/internal/coeff"
	"github.com/xtding233/hoops-sim/internal/dice"
	"github.com/xtding233/hoops-sim/internal/engine"
	"github.com/xtding233/hoops-sim/internal/roster"
	"github.com/xtding233/hoops-sim/internal/rotation"
	"github.com/xtding233/hoops-sim/internal/season"
)

// ErrBadRequest marks malformed requests.
var ErrBadRequest = errors.New("bad request")

// Seeds travel as decimal strings: JSON numbers lose uint64 precision.
type SimulateRequest struct {
	Home                roster.Team      `json:"home"`
	Away                roster.Team      `json:"away"`
	Seed                string           `json:"seed,omitempty"`
	CoefficientsVersion string           `json:"coefficients_version,omitempty"`
	PassMode            string           `json:"pass_mode,omitempty"`
	HomeRotation        *rotation.Config `json:"home_rotation,omitempty"`
	AwayRotation        *rotation.Config `json:"away_rotation,omitempty"`
	Start               *engine.Start    `json:"start,omitempty"`
	IncludeEvents       bool             `json:"include_events,omitempty"`
}

type ReplicateRequest struct {
	Home                roster.Team `json:"home"`
	Away                roster.Team `json:"away"`
	Games               int         `json:"games"`
	Seed                string      `json:"seed,omitempty"`
	CoefficientsVersion string      `json:"coefficients_version,omitempty"`
	PassMode            string      `json:"pass_mode,omitempty"`
}

type Service struct {
	coeffs   coeff.Resolver
	log      *logrus.Entry
	maxGames int
	workers  int
}

type ServiceOption func(*Service)

// WithMaxGames caps Replicate requests.
func WithMaxGames(n int) ServiceOption { return func(s *Service) { s.maxGames = n } }

func WithWorkers(n int) ServiceOption { return func(s *Service) { s.workers = n } }

func NewService(coeffs coeff.Resolver, log *logrus.Entry, opts ...ServiceOption) *Service {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	s := &Service{coeffs: coeffs, log: log, maxGames: 1000}
	for _, o := range opts {
		o(s)
	}
	return s
}

func parseSeed(s string) (uint64, error) {
	if s == "" {
		return dice.NewSeed()
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: seed %q", ErrBadRequest, s)
	}
	return v, nil
}

func overrides(version, passMode string) coeff.Overrides {
	var o coeff.Overrides
	if version != "" {
		o.Version = &version
	}
	if passMode != "" {
		o.PassMode = &passMode
	}
	return o
}

func (s *Service) SimulateGame(ctx context.Context, req SimulateRequest) (*engine.Result, error) {
	seed, err := parseSeed(req.Seed)
	if err != nil {
		return nil, err
	}
	c, err := s.coeffs.Resolve(overrides(req.CoefficientsVersion, req.PassMode))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := engine.Simulate(req.Home, req.Away, engine.Options{
		Seed:         seed,
		Coefficients: c,
		HomeRotation: req.HomeRotation,
		AwayRotation: req.AwayRotation,
		Start:        req.Start,
		Logger:       s.log,
	})
	if err != nil {
		return nil, err
	}
	if !req.IncludeEvents {
		res.Events = nil
	}
	s.log.WithFields(logrus.Fields{
		"home":    res.HomeID,
		"away":    res.AwayID,
		"seed":    seed,
		"version": res.Version,
		"score":   fmt.Sprintf("%d-%d", res.HomeScore, res.AwayScore),
	}).Info("game simulated")
	return res, nil
}

func (s *Service) Replicate(ctx context.Context, req ReplicateRequest) (*season.Summary, error) {
	if req.Games <= 0 || req.Games > s.maxGames {
		return nil, fmt.Errorf("%w: games must be in [1,%d], got %d", ErrBadRequest, s.maxGames, req.Games)
	}
	seed, err := parseSeed(req.Seed)
	if err != nil {
		return nil, err
	}
	c, err := s.coeffs.Resolve(overrides(req.CoefficientsVersion, req.PassMode))
	if err != nil {
		return nil, err
	}
	if err := roster.ValidateMatchup(req.Home, req.Away); err != nil {
		return nil, err
	}
	return season.Replicate(ctx, req.Home, req.Away, req.Games, season.Options{
		Seed:         seed,
		Workers:      s.workers,
		Coefficients: c,
		Logger:       s.log,
	})
}

// clientError reports whether err was caused by the request rather than the server.
func clientError(err error) bool {
	for _, target := range []error{
		ErrBadRequest,
		roster.ErrInvalidRoster,
		rotation.ErrInvalidConfig,
		rotation.ErrInsufficientPlayers,
		engine.ErrInvalidStart,
		coeff.ErrUnknownVersion,
		coeff.ErrInvalidCoefficient,
		coeff.ErrMissingCoefficient,
		dice.ErrInfeasibleCaps,
		dice.ErrInvalidProb,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func ctxError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
