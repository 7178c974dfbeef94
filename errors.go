/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger logs everything when verbose, and only errors otherwise.
func newLogger(verbose bool) *zap.SugaredLogger {
	zc := zap.NewDevelopmentConfig()
	zc.DisableCaller = true
	zc.DisableStacktrace = true
	zc.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(logDate)
	if !verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	logger, err := zc.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}

	return logger.Sugar()
}

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	cfg.log().Infof(format, args...)
}

func errorf(cfg *Config, format string, args ...any) {
	cfg.log().Errorf(format, args...)
}

// drainErrors logs handler write failures until errs is closed.
func drainErrors(cfg *Config, errs <-chan error) {
	for err := range errs {
		errorf(cfg, "ERROR: %v", err)
	}
}

// newPage renders a whole-page link. Its stylesheet is served from assets so
// the default-src 'self' policy applies to it.
func newPage(prefix, title, href, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(getFavicon(prefix))
	htmlBody.WriteString(fmt.Sprintf(`<link rel="stylesheet" href="%s/assets/page.css">`, html.EscapeString(prefix)))
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", html.EscapeString(title)))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"%s\">%s</a></body></html>", html.EscapeString(href), html.EscapeString(body)))

	return htmlBody.String()
}
