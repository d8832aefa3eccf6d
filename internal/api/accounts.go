package api

import (
	"context"

	"google.golang.org/grpc"
)

const AccountServiceName = "pinmark.accounts.v1.AccountService"

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email,max=128"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (x *RegisterRequest) GetUsername() string {
	if x != nil {
		return x.Username
	}
	return ""
}

func (x *RegisterRequest) GetEmail() string {
	if x != nil {
		return x.Email
	}
	return ""
}

func (x *RegisterRequest) GetPassword() string {
	if x != nil {
		return x.Password
	}
	return ""
}

// LoginRequest identifies the account by Username or Email. A username that
// looks like an address is also tried as an email.
type LoginRequest struct {
	Username string `json:"username,omitempty" validate:"required_without=Email,max=128"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

func (x *LoginRequest) GetUsername() string {
	if x != nil {
		return x.Username
	}
	return ""
}

func (x *LoginRequest) GetEmail() string {
	if x != nil {
		return x.Email
	}
	return ""
}

func (x *LoginRequest) GetPassword() string {
	if x != nil {
		return x.Password
	}
	return ""
}

// AccountResponse is returned by Register and Login.
type AccountResponse struct {
	UserId   string `json:"user_id"`
	Username string `json:"username"`
}

// UpdateAccountRequest replaces the viewer's editable account fields.
// DateOfBirth is YYYY-MM-DD; empty clears it.
type UpdateAccountRequest struct {
	FirstName   string `json:"first_name,omitempty" validate:"max=64"`
	LastName    string `json:"last_name,omitempty" validate:"max=64"`
	Email       string `json:"email" validate:"required,email,max=128"`
	DateOfBirth string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type AccountDetails struct {
	UserId      string `json:"user_id"`
	Username    string `json:"username"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Email       string `json:"email"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}

type ListUsersRequest struct{}

type UserSummary struct {
	Id       string `json:"id"`
	Username string `json:"username"`
}

type ListUsersResponse struct {
	Users []*UserSummary `json:"users"`
}

type GetUserRequest struct {
	Username string `json:"username"`
}

func (x *GetUserRequest) GetUsername() string {
	if x != nil {
		return x.Username
	}
	return ""
}

type GetUserResponse struct {
	User        *UserSummary `json:"user"`
	Followers   int64        `json:"followers"`
	Following   int64        `json:"following"`
	IsFollowing bool         `json:"is_following"`
	Actions     int64        `json:"actions"`
}

// AccountServiceServer is the server API for AccountService.
type AccountServiceServer interface {
	Register(context.Context, *RegisterRequest) (*AccountResponse, error)
	Login(context.Context, *LoginRequest) (*AccountResponse, error)
	ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error)
	GetUser(context.Context, *GetUserRequest) (*GetUserResponse, error)
	UpdateAccount(context.Context, *UpdateAccountRequest) (*AccountDetails, error)
}

var AccountService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: AccountServiceName,
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(AccountServiceName, "Register", func(srv any, ctx context.Context, in *RegisterRequest) (*AccountResponse, error) {
			return srv.(AccountServiceServer).Register(ctx, in)
		}),
		unary(AccountServiceName, "Login", func(srv any, ctx context.Context, in *LoginRequest) (*AccountResponse, error) {
			return srv.(AccountServiceServer).Login(ctx, in)
		}),
		unary(AccountServiceName, "ListUsers", func(srv any, ctx context.Context, in *ListUsersRequest) (*ListUsersResponse, error) {
			return srv.(AccountServiceServer).ListUsers(ctx, in)
		}),
		unary(AccountServiceName, "GetUser", func(srv any, ctx context.Context, in *GetUserRequest) (*GetUserResponse, error) {
			return srv.(AccountServiceServer).GetUser(ctx, in)
		}),
		unary(AccountServiceName, "UpdateAccount", func(srv any, ctx context.Context, in *UpdateAccountRequest) (*AccountDetails, error) {
			return srv.(AccountServiceServer).UpdateAccount(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pinmark/accounts",
}

func RegisterAccountServiceServer(s grpc.ServiceRegistrar, srv AccountServiceServer) {
	s.RegisterService(&AccountService_ServiceDesc, srv)
}

// AccountServiceClient is the client API for AccountService.
type AccountServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAccountServiceClient(cc grpc.ClientConnInterface) *AccountServiceClient {
	return &AccountServiceClient{cc: cc}
}

func (c *AccountServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AccountResponse, error) {
	return invoke[AccountResponse](ctx, c.cc, AccountServiceName, "Register", in, opts...)
}

func (c *AccountServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AccountResponse, error) {
	return invoke[AccountResponse](ctx, c.cc, AccountServiceName, "Login", in, opts...)
}

func (c *AccountServiceClient) ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error) {
	return invoke[ListUsersResponse](ctx, c.cc, AccountServiceName, "ListUsers", in, opts...)
}

func (c *AccountServiceClient) GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*GetUserResponse, error) {
	return invoke[GetUserResponse](ctx, c.cc, AccountServiceName, "GetUser", in, opts...)
}

func (c *AccountServiceClient) UpdateAccount(ctx context.Context, in *UpdateAccountRequest, opts ...grpc.CallOption) (*AccountDetails, error) {
	return invoke[AccountDetails](ctx, c.cc, AccountServiceName, "UpdateAccount", in, opts...)
}
