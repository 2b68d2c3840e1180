package server

import (
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"goldrush/board"
	"goldrush/simulation"
)

func newTestServer() *Server {
	cfg := simulation.Config{
		Width:     6,
		Height:    4,
		GoldTotal: 2,
		Red:       simulation.TeamConfig{Team: board.Red, Size: 1, DepositPos: board.Position{X: 0, Y: 0}},
		Blue:      simulation.TeamConfig{Team: board.Blue, Size: 1, DepositPos: board.Position{X: 5, Y: 3}},
	}
	c := simulation.NewController(cfg, rand.New(rand.NewSource(1)))
	return New("127.0.0.1:0", c)
}

func TestRoutes(t *testing.T) {
	Convey("Given a server wrapping a fresh controller", t, func() {
		s := newTestServer()

		Convey("GET / serves the index page", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("GET /api/snapshot returns a JSON snapshot matching board dims", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/snapshot", nil)
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldEqual, "application/json")
			So(rec.Body.String(), ShouldContainSubstring, `"width":6`)
			So(rec.Body.String(), ShouldContainSubstring, `"height":4`)
		})

		Convey("GET /api/deposits returns zeroed totals on a fresh board", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/deposits", nil)
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"red":0`)
			So(rec.Body.String(), ShouldContainSubstring, `"blue":0`)
		})

		Convey("POST /api/snapshot is not allowed", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/snapshot", nil)
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestHubFanOut(t *testing.T) {
	Convey("Given a hub with two subscribers", t, func() {
		h := newHub[int]()
		a := h.subscribe()
		b := h.subscribe()

		Convey("broadcast delivers to both without blocking", func() {
			h.broadcast(7)
			So(<-a, ShouldEqual, 7)
			So(<-b, ShouldEqual, 7)
		})

		Convey("a full subscriber buffer drops rather than blocks", func() {
			h.broadcast(1)
			h.broadcast(2) // a's buffer (size 1) is still full of 1; this is dropped for a
			So(<-a, ShouldEqual, 1)
			h.unsubscribe(b)
			So(h.subscriberCount(), ShouldEqual, 1)
		})
	})
}
