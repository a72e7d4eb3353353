package server

import (
	"canirun/internal/api"
	"canirun/internal/domain"
	"canirun/internal/extract"
	"canirun/internal/service"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	CompatibilityServiceName = "canirun.v1.CompatibilityService"

	CheckProcedure      = "/" + CompatibilityServiceName + "/Check"
	GetProfileProcedure = "/" + CompatibilityServiceName + "/GetProfile"
)

// RPCHandler serves the compatibility service over connect. Messages are
// google.protobuf.Struct, so plain JSON works:
//
//	curl -H 'Content-Type: application/json' -d '{"app_id":"620"}' \
//	  localhost:8080/canirun.v1.CompatibilityService/Check
func (s *CompatibilityServer) RPCHandler(opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(CheckProcedure, connect.NewUnaryHandler(CheckProcedure, s.Check, opts...))
	mux.Handle(GetProfileProcedure, connect.NewUnaryHandler(GetProfileProcedure, s.GetProfile, opts...))
	return "/" + CompatibilityServiceName + "/", mux
}

// Check takes {"app_id": "620", "tier": "recommended"} and returns the report.
func (s *CompatibilityServer) Check(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	fields := req.Msg.GetFields()

	appID, err := appIDField(fields["app_id"])
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	tier, err := domain.ParseTier(fields["tier"].GetStringValue())
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	report, err := s.checker.Check(ctx, appID, tier)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("procedure", CheckProcedure).Msg("request failed")
		return nil, connect.NewError(codeFor(err), err)
	}

	msg, err := toStruct(report)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(msg), nil
}

func (s *CompatibilityServer) GetProfile(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[structpb.Struct], error) {
	profile, err := s.checker.Profile(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("procedure", GetProfileProcedure).Msg("request failed")
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	msg, err := toStruct(profile)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(msg), nil
}

// appIDField accepts the id as a string or as a JSON number.
func appIDField(v *structpb.Value) (string, error) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue, nil
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: app_id is required", service.ErrInvalidAppID)
	}
}

func codeFor(err error) connect.Code {
	var extractionErr *extract.ExtractionError
	switch {
	case errors.Is(err, service.ErrInvalidAppID):
		return connect.CodeInvalidArgument
	case errors.Is(err, api.ErrInvalidGameIdentifier):
		return connect.CodeNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	case errors.As(err, &extractionErr), errors.Is(err, service.ErrExtraction):
		return connect.CodeUnavailable
	default:
		return connect.CodeInternal
	}
}

func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	msg := &structpb.Struct{}
	if err := protojson.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("convert response: %w", err)
	}
	return msg, nil
}
