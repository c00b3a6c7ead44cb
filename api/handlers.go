package api

import (
	"net/http"
	"strconv"

	"github.com/CosmWasm/tinyjson/jwriter"
	"github.com/gorilla/mux"

	"okinoko_multichoice/contract"
	"okinoko_multichoice/sdk"
)

func uintParam(r *http.Request, name string, bits int) (uint64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, bits)
	if err != nil {
		return 0, badRequest(name, err)
	}
	return n, nil
}

func pathID(r *http.Request) (uint64, error) {
	n, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, badRequest("id", err)
	}
	return n, nil
}

// page reads the cursor parameter and limit shared by the list endpoints.
func page(r *http.Request, cursor string) (uint64, uint32, error) {
	start, err := uintParam(r, cursor, 64)
	if err != nil {
		return 0, 0, err
	}
	limit, err := uintParam(r, "limit", 32)
	if err != nil {
		return 0, 0, err
	}
	return start, uint32(limit), nil
}

type countResponse uint64

func (c countResponse) MarshalTinyJSON(w *jwriter.Writer) {
	w.RawString(`{"count":`)
	w.Uint64(uint64(c))
	w.RawByte('}')
}

type addressList []sdk.Address

func (l addressList) MarshalTinyJSON(w *jwriter.Writer) {
	w.RawByte('[')
	for i, a := range l {
		if i > 0 {
			w.RawByte(',')
		}
		w.String(a.String())
	}
	w.RawByte(']')
}

type nullResponse struct{}

func (nullResponse) MarshalTinyJSON(w *jwriter.Writer) { w.RawString("null") }

func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.engine.Config()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, cfg)
}

func (s *Server) getProposal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	env, err := s.env(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	p, err := s.engine.Proposal(env, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, p)
}

func (s *Server) listProposals(w http.ResponseWriter, r *http.Request) {
	s.pageProposals(w, r, "start_after", s.engine.ListProposals)
}

func (s *Server) reverseProposals(w http.ResponseWriter, r *http.Request) {
	s.pageProposals(w, r, "start_before", s.engine.ReverseProposals)
}

func (s *Server) pageProposals(w http.ResponseWriter, r *http.Request, cursor string,
	list func(sdk.Env, uint64, uint32) ([]*contract.Proposal, error)) {
	start, limit, err := page(r, cursor)
	if err != nil {
		s.writeError(w, err)
		return
	}
	env, err := s.env(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	props, err := list(env, start, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, contract.ProposalList(props))
}

func (s *Server) proposalCount(w http.ResponseWriter, r *http.Request) {
	n, err := s.engine.ProposalCount()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, countResponse(n))
}

func (s *Server) listVotes(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	limit, err := uintParam(r, "limit", 32)
	if err != nil {
		s.writeError(w, err)
		return
	}
	votes, err := s.engine.ListVotes(id, sdk.Address(r.URL.Query().Get("start_after")), uint32(limit))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, contract.BallotList(votes))
}

func (s *Server) getVote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	b, err := s.engine.GetVote(id, sdk.Address(mux.Vars(r)["voter"]))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if b == nil {
		s.writeJSON(w, nullResponse{})
		return
	}
	s.writeJSON(w, b)
}

func (s *Server) listHooks(w http.ResponseWriter, r *http.Request) {
	kind, err := contract.ParseHookKind(mux.Vars(r)["kind"])
	if err != nil {
		s.writeError(w, badRequest("kind", err))
		return
	}
	hooks, err := s.engine.Hooks(kind)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, addressList(hooks))
}

// filterProposals takes wallet, status, option, start_after and limit.
func (s *Server) filterProposals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, limit, err := page(r, "start_after")
	if err != nil {
		s.writeError(w, err)
		return
	}
	fq := contract.FilterQuery{Wallet: sdk.Address(q.Get("wallet")), StartAfter: start, Limit: limit}
	if raw := q.Get("status"); raw != "" {
		st, err := contract.ParseStatus(raw)
		if err != nil {
			s.writeError(w, badRequest("status", err))
			return
		}
		fq.Status = &st
	}
	if q.Get("option") != "" {
		opt, err := uintParam(r, "option", 32)
		if err != nil {
			s.writeError(w, err)
			return
		}
		o := uint32(opt)
		fq.WalletVote.Option = &o
	}
	env, err := s.env(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.engine.FilterProposals(env, fq)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, res)
}
