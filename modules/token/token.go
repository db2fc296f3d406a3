package token

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/forge-network/token-ledger/common/errs"
	"github.com/forge-network/token-ledger/core"
	"github.com/forge-network/token-ledger/core/auditor"
	"github.com/forge-network/token-ledger/internal/config"
	"github.com/forge-network/token-ledger/internal/postgres"
	tokenapi "github.com/forge-network/token-ledger/modules/token/api"
	tokendatagateway "github.com/forge-network/token-ledger/modules/token/datagateway"
	tokenpostgres "github.com/forge-network/token-ledger/modules/token/repository/postgres"
	tokenusecase "github.com/forge-network/token-ledger/modules/token/usecase"
	"github.com/forge-network/token-ledger/pkg/logger"
	"github.com/forge-network/token-ledger/pkg/verifier"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
)

func New(injector do.Injector) (core.LedgerWorker, error) {
	ctx := do.MustInvoke[context.Context](injector)
	conf := do.MustInvoke[config.Config](injector)
	verifierClient := do.MustInvoke[*verifier.Client](injector)

	var (
		tokenDg      tokendatagateway.TokenDataGateway
		ledgerInfoDg tokendatagateway.LedgerInfoDataGateway
	)
	switch strings.ToLower(conf.Modules.Token.Database) {
	case "postgresql", "postgres", "pg":
		pg, err := postgres.NewPool(ctx, conf.Modules.Token.Postgres)
		if err != nil {
			if errors.Is(err, errs.InvalidArgument) {
				return nil, errors.Wrap(err, "Invalid Postgres configuration for ledger")
			}
			return nil, errors.Wrap(err, "can't create Postgres connection pool")
		}
		tokenRepo := tokenpostgres.NewRepository(pg)
		tokenDg = tokenRepo
		ledgerInfoDg = tokenRepo
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q database for ledger is not supported", conf.Modules.Token.Database)
	}

	processor := NewProcessor(tokenDg, ledgerInfoDg, conf.Network)
	if err := processor.VerifyStates(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	// Mount API
	apiHandlers := lo.Uniq(conf.Modules.Token.APIHandlers)
	for _, handler := range apiHandlers {
		switch handler {
		case "http":
			httpServer := do.MustInvoke[*fiber.App](injector)
			tokenUsecase := tokenusecase.New(tokenDg, ledgerInfoDg, processor)
			tokenHTTPHandler := tokenapi.NewHTTPHandler(conf.Network, tokenUsecase)
			if err := tokenHTTPHandler.Mount(httpServer); err != nil {
				return nil, errors.Wrap(err, "can't mount Token API")
			}
			logger.InfoContext(ctx, "Mounted HTTP handler")
		default:
			return nil, errors.Wrapf(errs.Unsupported, "%q API handler is not supported", handler)
		}
	}

	auditInterval := time.Duration(0)
	if raw := conf.Modules.Token.AuditInterval; raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, errors.Wrapf(errs.InvalidArgument, "invalid audit interval %q", raw)
		}
		auditInterval = parsed
	}

	checker := NewAuditChecker(tokenDg, conf.Network, verifierClient)
	return auditor.New(checker, auditInterval), nil
}
