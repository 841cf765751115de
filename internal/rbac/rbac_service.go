package rbac

import (
	"go.uber.org/zap"
)

type Enforcer interface {
	Enforce(rvals ...interface{}) (bool, error)
}

type Service interface {
	Enforce(req EnforceRequest) (bool, error)
}

type service struct {
	enforcer Enforcer
	logger   *zap.Logger
}

func NewService(enforcer Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	if req.Role == "" {
		return false, nil
	}

	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("casbin enforce failed",
			zap.String("role", req.Role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac decision",
		zap.String("role", req.Role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
