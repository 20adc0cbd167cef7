package opend

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"

	"moomoo-exporter/internal/interfaces"
	"moomoo-exporter/internal/types"
)

// The OpenD bridge speaks length-prefixed JSON frames over TCP: a
// big-endian uint32 byte count followed by one JSON document. Requests
// name a method and carry a params object; responses carry the
// application ret code, a diagnostic message, and an opaque data
// payload. Data queries intentionally have no deadline - the probe is
// the only timed operation.
const maxFrameSize = 8 << 20

type frameRequest struct {
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

type frameResponse struct {
	Ret  types.RetCode   `json:"ret"`
	Msg  string          `json:"msg,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// liveSession is a TradeSession over one bridge connection. Calls are
// serialized: the bridge answers strictly in request order.
type liveSession struct {
	conn      net.Conn
	mu        sync.Mutex
	closeOnce sync.Once
}

var _ interfaces.TradeSession = (*liveSession)(nil)

func dialTradeSession(ctx context.Context, p Params) (*liveSession, error) {
	conn, err := dialGateway(ctx, p)
	if err != nil {
		return nil, err
	}

	s := &liveSession{conn: conn}

	// Scope the session before any query. Failure here is a transport
	// failure: the connection is unusable and must not leak.
	resp, err := s.call("trd.open", map[string]any{
		"market":        p.Market,
		"security_firm": p.SecurityFirm,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open trade session: %w", err)
	}
	if resp.Ret != types.RetOK {
		conn.Close()
		return nil, fmt.Errorf("open trade session: gateway refused: %s", resp.Msg)
	}
	return s, nil
}

func dialGateway(ctx context.Context, p Params) (net.Conn, error) {
	addr := net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial gateway %s: %w", addr, err)
	}
	return conn, nil
}

func (s *liveSession) AccountList(ctx context.Context) (types.AccountListResult, error) {
	resp, err := s.call("trd.get_acc_list", nil)
	if err != nil {
		return types.AccountListResult{}, err
	}
	res := types.AccountListResult{Ret: resp.Ret, Diagnostic: resp.Msg}
	if !res.OK() {
		return res, nil
	}
	if err := json.Unmarshal(resp.Data, &res.Accounts); err != nil {
		return types.AccountListResult{}, fmt.Errorf("decode account list: %w", err)
	}
	return res, nil
}

func (s *liveSession) PositionList(ctx context.Context, accID types.AccountID, refreshCache bool) (types.PositionListResult, error) {
	resp, err := s.call("trd.position_list_query", map[string]any{
		"acc_id":        accID,
		"refresh_cache": refreshCache,
	})
	if err != nil {
		return types.PositionListResult{}, err
	}
	res := types.PositionListResult{Ret: resp.Ret, Diagnostic: resp.Msg}
	if !res.OK() {
		return res, nil
	}
	if err := json.Unmarshal(resp.Data, &res.Positions); err != nil {
		return types.PositionListResult{}, fmt.Errorf("decode position list: %w", err)
	}
	return res, nil
}

func (s *liveSession) AccountInfo(ctx context.Context, accID types.AccountID, currency string, refreshCache bool) (types.AccountInfoResult, error) {
	resp, err := s.call("trd.accinfo_query", map[string]any{
		"acc_id":        accID,
		"currency":      currency,
		"refresh_cache": refreshCache,
	})
	if err != nil {
		return types.AccountInfoResult{}, err
	}
	res := types.AccountInfoResult{Ret: resp.Ret, Diagnostic: resp.Msg}
	if !res.OK() {
		return res, nil
	}
	if err := json.Unmarshal(resp.Data, &res.Account); err != nil {
		return types.AccountInfoResult{}, fmt.Errorf("decode account info: %w", err)
	}
	res.Account.AccID = accID
	return res, nil
}

func (s *liveSession) Close(ctx context.Context) {
	s.closeOnce.Do(func() {
		s.conn.Close()
	})
}

func (s *liveSession) call(method string, params any) (frameResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFrame(s.conn, frameRequest{Method: method, Params: params}); err != nil {
		return frameResponse{}, fmt.Errorf("%s: %w", method, err)
	}
	var resp frameResponse
	if err := readFrame(s.conn, &resp); err != nil {
		return frameResponse{}, fmt.Errorf("%s: %w", method, err)
	}
	return resp, nil
}

func writeFrame(w io.Writer, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(body)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

func readFrame(r io.Reader, v any) error {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return err
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if n > maxFrameSize {
		return fmt.Errorf("frame of %d bytes exceeds limit", n)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

// liveQuoteSession holds a market-data connection. The export pipeline
// does not use it; it exists for quote consumers of this package.
type liveQuoteSession struct {
	conn      net.Conn
	closeOnce sync.Once
}

func dialQuoteSession(ctx context.Context, p Params) (*liveQuoteSession, error) {
	conn, err := dialGateway(ctx, p)
	if err != nil {
		return nil, err
	}
	return &liveQuoteSession{conn: conn}, nil
}

func (s *liveQuoteSession) Close(ctx context.Context) {
	s.closeOnce.Do(func() {
		s.conn.Close()
	})
}
