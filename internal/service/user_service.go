package service

import (
	"context"

	"arrow-be/internal/dto"
	"arrow-be/internal/entity"
	"arrow-be/internal/mapper"
	"arrow-be/internal/repository/unitofwork"
	"arrow-be/internal/session"
)

type IUserService interface {
	GetProfile(ctx context.Context, id *session.Identity) (*dto.UserProfileResponse, error)
	UpdateRole(ctx context.Context, id *session.Identity, req *dto.UpdateRoleRequest) (*dto.UserProfileResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{uowFactory: uowFactory}
}

func (s *userService) GetProfile(ctx context.Context, id *session.Identity) (*dto.UserProfileResponse, error) {
	if err := session.Require(id); err != nil {
		return nil, err
	}
	user, err := s.uowFactory.NewUnitOfWork(ctx).UserRepository().FindByID(ctx, id.UserId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	res := mapper.UserToProfile(user)
	return &res, nil
}

func (s *userService) UpdateRole(ctx context.Context, id *session.Identity, req *dto.UpdateRoleRequest) (*dto.UserProfileResponse, error) {
	if err := session.Require(id); err != nil {
		return nil, err
	}
	role := entity.UserRole(req.Role)
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	if err := s.uowFactory.NewUnitOfWork(ctx).UserRepository().UpdateRole(ctx, id.UserId, role); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, id)
}
