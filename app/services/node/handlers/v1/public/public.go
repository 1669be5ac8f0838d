// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/quantacoin/blockchain/business/web/errs"
	"github.com/quantacoin/blockchain/foundation/blockchain/digest"
	"github.com/quantacoin/blockchain/foundation/blockchain/ledger"
	"github.com/quantacoin/blockchain/foundation/blockchain/state"
	"github.com/quantacoin/blockchain/foundation/events"
	"github.com/quantacoin/blockchain/foundation/nameservice"
	"github.com/quantacoin/blockchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	h.Log.Infow("events", "traceid", v.TraceID, "message", "websocket open")
	defer h.Log.Infow("events", "traceid", v.TraceID, "message", "websocket closed")

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.Genesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Chain returns the full chain of blocks, genesis first.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.State.Chain()
	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// LatestBlock returns the newest block on the chain.
func (h Handlers) LatestBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block := h.State.LatestBlock()
	return web.Respond(ctx, w, block, http.StatusOK)
}

// BlockByIndex returns the block at the specified height.
func (h Handlers) BlockByIndex(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index, err := strconv.ParseUint(web.Param(r, "index"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid block index: %w", err), http.StatusBadRequest)
	}

	block, found := h.State.BlockByIndex(index)
	if !found {
		return errs.NewTrusted(fmt.Errorf("block %d does not exist", index), http.StatusNotFound)
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// Balances returns the derived balances for all addresses or for the one
// specified on the route.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := web.Param(r, "address")

	var all map[string]uint64
	switch address {
	case "":
		all = h.State.Balances()

	default:
		all = map[string]uint64{address: h.State.Balance(address)}
	}

	bals := make([]balance, 0, len(all))
	for address, amount := range all {
		bals = append(bals, balance{
			Address: address,
			Name:    h.NS.Lookup(address),
			Balance: amount,
		})
	}

	resp := balances{
		LatestBlock: h.State.LatestBlock().Hash,
		Pending:     h.State.PendingCount(),
		Balances:    bals,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Transactions returns every confirmed transaction on the chain.
func (h Handlers) Transactions(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	txs := h.State.Transactions()
	return web.Respond(ctx, w, h.toTxs(txs), http.StatusOK)
}

// Pending returns the pool of uncommitted transactions.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	txs := h.State.PendingTransactions()
	return web.Respond(ctx, w, h.toTxs(txs), http.StatusOK)
}

// SubmitTransaction adds a new transaction to the pool of pending
// transactions.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var ntx newTx
	if err := web.Decode(r, &ntx); err != nil {
		return err
	}

	signature, err := digest.Sign([]byte(fmt.Sprintf("%s|%s|%s|%d|%d|%s", ntx.Type, ntx.From, ntx.To, ntx.Amount, ntx.Fee, ntx.Data)))
	if err != nil {
		return err
	}

	tx := ledger.NewTransaction(ledger.TxType(ntx.Type), ntx.From, ntx.To, ntx.Amount, ntx.Fee, ntx.Data, signature)

	h.Log.Infow("submit transaction", "traceid", v.TraceID, "tx", tx.String())
	if err := h.State.SubmitTransaction(tx); err != nil {
		if errors.Is(err, state.ErrInsufficientFunds) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return errs.NewTrusted(err, http.StatusUnprocessableEntity)
	}

	h.Evts.Send(fmt.Sprintf("transaction accepted: %s", tx.ID))

	resp := struct {
		Status string `json:"status"`
		ID     string `json:"id"`
	}{
		Status: "transaction added to pool",
		ID:     tx.ID,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mine performs one mining round against the pool of pending transactions.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	miner := web.Param(r, "address")
	if miner == "" {
		return errs.NewTrusted(errors.New("miner address is required"), http.StatusBadRequest)
	}

	h.Log.Infow("mine", "traceid", v.TraceID, "miner", miner)
	result, err := h.State.Mine(r.Context(), miner)
	if err != nil {
		return err
	}

	if result.Success {
		h.Evts.Send(fmt.Sprintf("block mined: %s", result.Hash))
	}

	return web.Respond(ctx, w, toMineResult(result), http.StatusOK)
}

// Validate replays the chain and reports whether every block checks out.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Valid  bool   `json:"valid"`
		Blocks int    `json:"blocks"`
		Reason string `json:"reason,omitempty"`
	}{
		Valid:  true,
		Blocks: h.State.ChainLength(),
	}

	if err := h.State.Validate(); err != nil {
		resp.Valid = false
		resp.Reason = err.Error()
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Search scans the chain for blocks and transactions matching the query.
func (h Handlers) Search(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query().Get("q")
	if query == "" {
		return errs.NewTrusted(errors.New("query parameter q is required"), http.StatusBadRequest)
	}

	blocks, txs := h.State.Search(query)

	resp := searchResult{
		Query:        query,
		Blocks:       blocks,
		Transactions: h.toTxs(txs),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// toTxs converts ledger transactions into their client facing form with
// resolved account names.
func (h Handlers) toTxs(txs []ledger.Transaction) []tx {
	views := make([]tx, len(txs))
	for i, t := range txs {
		views[i] = tx{
			ID:           t.ID,
			Type:         string(t.Type),
			From:         t.From,
			FromName:     h.NS.Lookup(t.From),
			To:           t.To,
			ToName:       h.NS.Lookup(t.To),
			Amount:       t.Amount,
			Fee:          t.Fee,
			Timestamp:    t.Timestamp,
			Data:         t.Data,
			Status:       string(t.Status),
			BlockHeight:  t.BlockHeight,
			IndexInBlock: t.IndexInBlock,
			Signature:    t.Signature,
		}
	}
	return views
}
