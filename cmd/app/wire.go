//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/faq-system/internal/bootstrap"
	"github.com/yanqian/faq-system/internal/domain/auth"
	"github.com/yanqian/faq-system/internal/domain/faq"
	"github.com/yanqian/faq-system/internal/domain/upload"
	"github.com/yanqian/faq-system/internal/infra/config"
	httpiface "github.com/yanqian/faq-system/internal/interface/http"
	"github.com/yanqian/faq-system/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideFAQConfig,
		provideAuthConfig,
		provideUploadConfig,
		provideDatabase,
		provideFAQRepository,
		provideUserRepository,
		provideListCache,
		provideObjectStorage,
		faq.NewService,
		auth.NewService,
		upload.NewService,
		httpiface.NewFAQHandler,
		httpiface.NewAuthHandler,
		httpiface.NewUploadHandler,
		httpiface.NewWebHandler,
		wire.Struct(new(httpiface.Handlers), "*"),
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
