package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"storeloft/config"
	"storeloft/infras/otel/mocks"
	userMocks "storeloft/internal/domains/user/mocks"
	"storeloft/internal/domains/user/model"
	"storeloft/internal/domains/user/model/dto"
	"storeloft/internal/domains/user/service"
	"storeloft/shared/cache"
	cacheMocks "storeloft/shared/cache/mocks"
	"storeloft/shared/constant"
	"storeloft/shared/failure"
	gModel "storeloft/shared/model"
	"storeloft/shared/timezone"
)

func strPtr(s string) *string {
	return &s
}

func identityContext(uid, email, role string) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, uid)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, email)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, role)

	return ctx
}

func TestUserService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.RegisterUserRequest
		setupMock func()
		wantErr   bool
		wantCode  int
		check     func(t *testing.T, res dto.UserResponse)
	}{
		{
			name: "successful registration defaults to renter",
			ctx:  identityContext("uid-1", "renter@example.com", constant.RoleRenter),
			req:  dto.RegisterUserRequest{FullName: strPtr("Ren Ter")},
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user model.User) error {
						assert.Equal(t, "uid-1", user.ID)
						assert.Equal(t, "renter@example.com", user.Email)
						assert.Equal(t, constant.RoleRenter, user.Role)
						assert.True(t, user.Active)

						return nil
					})
			},
			check: func(t *testing.T, res dto.UserResponse) {
				assert.Equal(t, "uid-1", res.ID)
				assert.Equal(t, constant.RoleRenter, res.Role)
			},
		},
		{
			name: "lender role kept from request",
			ctx:  identityContext("uid-2", "lender@example.com", constant.RoleRenter),
			req:  dto.RegisterUserRequest{Role: constant.RoleLender},
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user model.User) error {
						assert.Equal(t, constant.RoleLender, user.Role)

						return nil
					})
			},
			check: func(t *testing.T, res dto.UserResponse) {
				assert.Equal(t, constant.RoleLender, res.Role)
			},
		},
		{
			name:      "missing identity",
			ctx:       context.Background(),
			req:       dto.RegisterUserRequest{},
			setupMock: func() {},
			wantErr:   true,
			wantCode:  401,
		},
		{
			name: "already registered",
			ctx:  identityContext("uid-1", "renter@example.com", constant.RoleRenter),
			req:  dto.RegisterUserRequest{},
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "repository error",
			ctx:  identityContext("uid-1", "renter@example.com", constant.RoleRenter),
			req:  dto.RegisterUserRequest{},
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Register(tt.ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)

			if tt.check != nil {
				tt.check(t, res)
			}
		})
	}
}

func TestUserService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	existing := model.User{
		ID:               "uid-1",
		Email:            "renter@example.com",
		Role:             constant.RoleRenter,
		StripeCustomerID: strPtr("cus_123"),
		Active:           true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "uid-1",
			ModifiedBy: "uid-1",
		},
	}

	t.Run("found", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(cache.Nil)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(existing, nil)

		res, err := svc.Get(context.Background(), "uid-1")

		assert.NoError(t, err)
		assert.Equal(t, "uid-1", res.ID)
		assert.Equal(t, "cus_123", *res.StripeCustomerID)
	})

	t.Run("not found", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(cache.Nil)

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.User{}, nil)

		_, err := svc.Get(context.Background(), "ghost")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestUserService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mockOtel)

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.UpdateUserRequest
		id        string
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "owner updates own profile",
			ctx:  identityContext("uid-1", "renter@example.com", constant.RoleRenter),
			req:  dto.UpdateUserRequest{Phone: strPtr("+6281234567890")},
			id:   "uid-1",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ interface{}) error {
						assert.Contains(t, fields, model.FieldPhone)

						return nil
					})
			},
		},
		{
			name: "admin updates billing refs of another user",
			ctx:  identityContext("admin-1", "admin@example.com", constant.RoleAdmin),
			req:  dto.UpdateUserRequest{StripeAccountID: strPtr("acct_987")},
			id:   "uid-2",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name:      "non-admin cannot update someone else",
			ctx:       identityContext("uid-1", "renter@example.com", constant.RoleRenter),
			req:       dto.UpdateUserRequest{Phone: strPtr("+620000000000")},
			id:        "uid-2",
			setupMock: func() {},
			wantErr:   true,
			wantCode:  403,
		},
		{
			name:      "empty request",
			ctx:       identityContext("uid-1", "renter@example.com", constant.RoleRenter),
			req:       dto.UpdateUserRequest{},
			id:        "uid-1",
			setupMock: func() {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "user not found",
			ctx:  identityContext("uid-1", "renter@example.com", constant.RoleRenter),
			req:  dto.UpdateUserRequest{Phone: strPtr("+620000000000")},
			id:   "uid-1",
			setupMock: func() {
				mockRepo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Update(tt.ctx, tt.req, tt.id)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
		})
	}
}
