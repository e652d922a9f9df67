package rest

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	cmap "github.com/orcaman/concurrent-map"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"railbird.club/server/game"
	"railbird.club/server/logging"
	"railbird.club/server/nats"
	"railbird.club/server/poker"
	"railbird.club/server/util"
)

var restLogger = logging.GetZeroLogger("rest::rest", os.Stdout)

var gameManager *game.Manager
var natsManager *nats.Manager
var cardResolver nats.CardResolver
var tuning game.Tuning
var scanLimiters = cmap.New()

//
// APP error definition
//
type appError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type newTableResponse struct {
	TableCode string `json:"tableCode"`
	HostCode  string `json:"hostCode"`
}

type scanResponse struct {
	Accepted bool   `json:"accepted"`
	Card     string `json:"card"`
}

// RunRestServer blocks serving the HTTP API. natsMgr may be nil when
// push notifications are disabled.
func RunRestServer(manager *game.Manager, natsMgr *nats.Manager, resolver nats.CardResolver, tuningProfile game.Tuning) error {
	gameManager = manager
	natsManager = natsMgr
	cardResolver = resolver
	tuning = tuningProfile

	return newRouter().Run(fmt.Sprintf(":%d", util.Env.GetListenPort()))
}

func newRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/new-table", newTable)
	r.POST("/advance", advance)
	r.POST("/force-button", forceButton)
	r.POST("/scanned-card", scannedCard)
	r.POST("/end-table", endTable)
	r.GET("/game-state", gameState)
	r.GET("/host-view", hostView)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// statusFor maps the domain error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch err.(type) {
	case game.InvalidConfigError, game.DuplicateCardError:
		return http.StatusBadRequest
	case game.TableNotFoundError, game.UnknownCardError:
		return http.StatusNotFound
	case game.WrongHostCodeError:
		return http.StatusForbidden
	case game.UnexpectedPhaseError:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	code := statusFor(err)
	c.IndentedJSON(code, appError{
		Code:    code,
		Message: err.Error(),
	})
	c.Error(err)
}

// hostTable loads a table and checks the caller's host code. Mutating
// endpoints all go through here.
func hostTable(c *gin.Context, tableCode string, hostCode string) (*game.Table, error) {
	table, err := gameManager.GetTable(tableCode)
	if err != nil {
		return nil, err
	}
	if !table.AuthorizeHost(hostCode) {
		return nil, game.WrongHostCodeError{}
	}
	return table, nil
}

// advanceContext bounds how long an advance may wait on the card
// scanner before giving up and leaving the deal resumable.
func advanceContext(c *gin.Context) (context.Context, context.CancelFunc) {
	wait := time.Duration(tuning.ScanWaitSec) * time.Second
	return context.WithTimeout(c.Request.Context(), wait)
}

func newTable(c *gin.Context) {
	restLogger.Info().Msg("New table is requested")

	type payload struct {
		Players    []string `json:"players"`
		ButtonSeat int      `json:"buttonSeat"`
		InfoMode   string   `json:"infoMode"`
		DealMode   string   `json:"dealMode"`
		BurnCards  *bool    `json:"burnCards"`
	}
	var body payload
	if err := c.BindJSON(&body); err != nil {
		restLogger.Error().Msgf("Failed to parse table configuration. Error: %v", err)
		abortWithError(c, game.InvalidConfigError{Msg: err.Error()})
		return
	}

	// The audience-safe mode is the default; showing everything is
	// opt-in, as in a home-game stream setup.
	infoMode := game.InfoModeDelayed
	if body.InfoMode != "" {
		infoMode = game.InfoMode(body.InfoMode)
	}
	dealMode := game.DealModeAuto
	if body.DealMode != "" {
		dealMode = game.DealMode(body.DealMode)
	}
	burnCards := util.Env.ShouldBurnCards()
	if body.BurnCards != nil {
		burnCards = *body.BurnCards
	}

	ctx, cancel := advanceContext(c)
	defer cancel()
	table, err := gameManager.CreateTable(ctx, game.TableConfig{
		Players:    body.Players,
		ButtonSeat: body.ButtonSeat,
		InfoMode:   infoMode,
		DealMode:   dealMode,
		BurnCards:  burnCards,
	})
	if table == nil {
		abortWithError(c, err)
		return
	}
	if err != nil {
		// Scan-fed tables come up waiting for their first deal.
		restLogger.Warn().Str(logging.TableCodeKey, table.TableCode()).
			Msgf("Table created, first deal pending: %s", err)
	}

	// The host code is handed out exactly once, here.
	c.JSON(http.StatusOK, newTableResponse{
		TableCode: table.TableCode(),
		HostCode:  table.HostCode(),
	})
}

func advance(c *gin.Context) {
	tableCode := c.Query("table-code")
	if tableCode == "" {
		c.String(400, "Failed to read table-code param from advance endpoint")
		return
	}

	table, err := hostTable(c, tableCode, c.Query("host-code"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	ctx, cancel := advanceContext(c)
	defer cancel()
	if err := table.Advance(ctx); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, table.View())
}

func forceButton(c *gin.Context) {
	type payload struct {
		TableCode string `json:"tableCode"`
		HostCode  string `json:"hostCode"`
		Seat      int    `json:"seat"`
	}
	var body payload
	if err := c.BindJSON(&body); err != nil {
		restLogger.Error().Msgf("Failed to read force-button message. Error: %s", err.Error())
		abortWithError(c, game.InvalidConfigError{Msg: err.Error()})
		return
	}

	table, err := hostTable(c, body.TableCode, body.HostCode)
	if err != nil {
		abortWithError(c, err)
		return
	}

	ctx, cancel := advanceContext(c)
	defer cancel()
	if err := table.ForceButton(ctx, body.Seat); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, table.View())
}

func gameState(c *gin.Context) {
	tableCode := c.Query("table-code")
	if tableCode == "" {
		c.String(400, "Failed to read table-code param from game-state endpoint")
		return
	}

	table, err := gameManager.GetTable(tableCode)
	if err != nil {
		abortWithError(c, err)
		return
	}

	// Cheap freshness probe for pollers: ?known-version=N responds
	// 304 when nothing changed.
	view := table.View()
	if knownStr := c.Query("known-version"); knownStr != "" {
		known, err := strconv.ParseUint(knownStr, 10, 64)
		if err == nil && known == view.Version {
			c.Status(http.StatusNotModified)
			return
		}
	}
	c.JSON(http.StatusOK, view)
}

func hostView(c *gin.Context) {
	tableCode := c.Query("table-code")
	if tableCode == "" {
		c.String(400, "Failed to read table-code param from host-view endpoint")
		return
	}

	table, err := hostTable(c, tableCode, c.Query("host-code"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, table.HostView())
}

// scannedCard ingests one RFID read from the table hardware. Readers
// debounce locally but retry aggressively, so the server enforces its
// own per-table rate.
func scannedCard(c *gin.Context) {
	type payload struct {
		TableCode string `json:"tableCode"`
		UID       string `json:"uid"`
		Card      string `json:"card"`
	}
	var body payload
	if err := c.BindJSON(&body); err != nil {
		restLogger.Error().Msgf("Failed to read scanned-card message. Error: %s", err.Error())
		abortWithError(c, game.InvalidConfigError{Msg: err.Error()})
		return
	}

	if !limiterFor(body.TableCode).Allow() {
		util.MetricsScanRejected()
		c.IndentedJSON(http.StatusTooManyRequests, appError{
			Code:    http.StatusTooManyRequests,
			Message: "Scans are arriving too fast",
		})
		return
	}

	table, err := gameManager.GetTable(body.TableCode)
	if err != nil {
		abortWithError(c, err)
		return
	}

	var card poker.Card
	if body.Card != "" {
		card, err = poker.ParseCard(body.Card)
		if err != nil {
			abortWithError(c, game.InvalidConfigError{Msg: err.Error()})
			return
		}
	} else {
		card, err = cardResolver.Resolve(body.UID)
		if err != nil {
			abortWithError(c, err)
			return
		}
	}

	if err := table.ScanCard(card); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, scanResponse{Accepted: true, Card: card.String()})
}

func endTable(c *gin.Context) {
	tableCode := c.Query("table-code")
	if tableCode == "" {
		c.String(400, "Failed to read table-code param from end-table endpoint")
		return
	}

	if _, err := hostTable(c, tableCode, c.Query("host-code")); err != nil {
		abortWithError(c, err)
		return
	}

	if err := gameManager.CloseTable(tableCode); err != nil {
		abortWithError(c, err)
		return
	}
	if natsManager != nil {
		natsManager.CloseTable(tableCode)
	}
	scanLimiters.Remove(tableCode)
	c.Status(http.StatusOK)
}

func limiterFor(tableCode string) *rate.Limiter {
	if val, ok := scanLimiters.Get(tableCode); ok {
		return val.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(rate.Limit(tuning.ScansPerSec), int(tuning.ScanBurst))
	scanLimiters.SetIfAbsent(tableCode, limiter)
	val, _ := scanLimiters.Get(tableCode)
	return val.(*rate.Limiter)
}
