package middleware

import (
	"context"
	"net"
	"net/http"

	"github.com/akolanti/ContentAPI/internal/adapter/utils"
	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/handlers"
)

func injectTrace(re requestResponseStruct) requestResponseStruct {
	re.logger.Debug("Injecting trace middleware")
	req := re.req
	if req == nil {
		//this is a bad request
		re.badRequest.httpCode = http.StatusBadRequest
		re.badRequest.errorMessage = "request is empty"
		re.badRequest.isBadRequest = true
		return re
	}
	trace := req.Header.Get("X-Trace-Id")
	if trace == "" {
		trace = utils.GetNewUUID()
	}
	re.logger = re.logger.With("traceId", trace)
	ctx := context.WithValue(req.Context(), config.TRACE_ID_KEY, trace)
	req.Header.Set(`X-Trace-Id`, trace)
	re.writer.Header().Set(`X-Trace-Id`, trace)
	re.req = req.WithContext(ctx)

	re.logger.Debug("trace middleware injected")
	return re
}

func rateLimiter(re requestResponseStruct) requestResponseStruct {
	re.logger.Debug("Rate limiter middleware")
	ip, _, err := net.SplitHostPort(re.req.RemoteAddr)
	if err != nil {
		ip = re.req.RemoteAddr
	}

	if !limiterInstance.GetLimiter(ip).Allow() {
		re.logger.Warn("Too many requests", "ip", ip)
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusTooManyRequests,
			errorMessage: "Rate limit exceeded",
		}
		return re
	}
	re.logger.Debug("Rate limiter middleware authorized")
	return re
}

func handleBadRequest(re requestResponseStruct) bool {
	if re.badRequest.isBadRequest {
		remote := ""
		if re.req != nil {
			remote = re.req.RemoteAddr
		}
		re.logger.Warn("Bad request", "httpCode", re.badRequest.httpCode, "errorMessage", re.badRequest.errorMessage, "IP", remote)
		handlers.WriteErrorResponse(re.writer, re.badRequest.httpCode, re.badRequest.errorMessage)
		return false
	}
	return true
}
