package crawler_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/scottpeterman/termtelent-sub002/internal/config"
	"github.com/scottpeterman/termtelent-sub002/internal/crawler"
	"github.com/scottpeterman/termtelent-sub002/internal/exception"
	mock_crawler "github.com/scottpeterman/termtelent-sub002/internal/mock/crawler"
	mock_parse "github.com/scottpeterman/termtelent-sub002/internal/mock/parse"
	mock_platform "github.com/scottpeterman/termtelent-sub002/internal/mock/platform"
	mock_session "github.com/scottpeterman/termtelent-sub002/internal/mock/session"
	"github.com/scottpeterman/termtelent-sub002/internal/neighbor"
	"github.com/scottpeterman/termtelent-sub002/internal/parse"
	"github.com/scottpeterman/termtelent-sub002/internal/platform"
	"github.com/scottpeterman/termtelent-sub002/internal/session"
	"github.com/scottpeterman/termtelent-sub002/internal/topology"
)

func crawlConf() *config.Crawl {
	return &config.Crawl{
		Seed:       "10.0.0.1",
		MaxDevices: 100,
		Workers:    2,
		Timeout:    5 * time.Second,
		Exclusions: []string{},
		Credentials: config.Credentials{
			Username: "admin",
			Password: "secret",
		},
	}
}

func newDialect(ctrl *gomock.Controller, name, hint string) *mock_platform.MockDialect {
	dialect := mock_platform.NewMockDialect(ctrl)

	dialect.EXPECT().Name().Return(name).AnyTimes()
	dialect.EXPECT().NeighborCommands().Return([]platform.NeighborCommand{
		{Protocol: neighbor.CDP, Command: "show cdp neighbors detail", TemplateHint: hint},
	}).AnyTimes()

	return dialect
}

func TestCrawlService(t *testing.T) {
	t.Run("crawls seed and neighbors to completion", func(st *testing.T) {
		ctrl := gomock.NewController(st)
		defer ctrl.Finish()

		mockDetector := mock_crawler.NewMockDetector(ctrl)
		mockDialer := mock_session.NewMockDialer(ctrl)
		mockParser := mock_parse.NewMockEngine(ctrl)
		mockSession := mock_session.NewMockSession(ctrl)

		iosDialect := newDialect(ctrl, "ios", "ios_cdp")
		nxosDialect := newDialect(ctrl, "nxos_ssh", "nxos_cdp")

		mockDetector.EXPECT().
			Detect(gomock.Any(), "10.0.0.1", gomock.Any(), gomock.Any()).
			Return(iosDialect, &session.Facts{
				Hostname:  "access-sw01.corp.local",
				Vendor:    "Cisco",
				Model:     "WS-C3850-48T",
				OSVersion: "Version 16.9.4",
				Serial:    "FCW1234A0AA",
			}, nil)

		mockDetector.EXPECT().
			Detect(gomock.Any(), "10.0.0.2", gomock.Any(), gomock.Any()).
			Return(nxosDialect, &session.Facts{
				Hostname:  "core-sw01",
				Vendor:    "Cisco",
				Model:     "Nexus9000 C9336C-FX2",
				OSVersion: "9.3(5) NX-OS",
				Serial:    "FDO1234ABCD",
			}, nil)

		mockDetector.EXPECT().
			Detect(gomock.Any(), "10.0.0.3", gomock.Any(), gomock.Any()).
			Return(nil, nil, exception.ErrUnreachable)

		mockDialer.EXPECT().
			Dial(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(mockSession, nil).
			Times(2)

		mockSession.EXPECT().Close().Times(2)

		mockSession.EXPECT().
			Run(gomock.Any(), "show cdp neighbors detail").
			Return("raw neighbor output", nil).
			Times(2)

		mockParser.EXPECT().
			FindBestTemplate("raw neighbor output", "ios_cdp").
			Return("show cdp neighbors detail", []parse.Record{
				{
					"NEIGHBOR_NAME":      "core-sw01.corp.local",
					"MGMT_ADDRESS":       "10.0.0.2",
					"LOCAL_INTERFACE":    "GigabitEthernet1/0/1",
					"NEIGHBOR_INTERFACE": "GigabitEthernet1/0/24",
					"PLATFORM":           "cisco Nexus9000",
				},
				{
					"NEIGHBOR_NAME":      "dead-sw01",
					"MGMT_ADDRESS":       "10.0.0.3",
					"LOCAL_INTERFACE":    "GigabitEthernet1/0/2",
					"NEIGHBOR_INTERFACE": "GigabitEthernet0/1",
					"PLATFORM":           "cisco WS-C2960",
				},
			}, 20.0)

		mockParser.EXPECT().
			FindBestTemplate("raw neighbor output", "nxos_cdp").
			Return("show cdp neighbors detail", []parse.Record{
				{
					"NEIGHBOR_NAME":      "access-sw01",
					"MGMT_ADDRESS":       "10.0.0.1",
					"LOCAL_INTERFACE":    "GigabitEthernet1/0/24",
					"NEIGHBOR_INTERFACE": "GigabitEthernet1/0/1",
					"PLATFORM":           "cisco WS-C3850-48T",
				},
			}, 10.5)

		service := crawler.NewCrawlService(crawlConf(), mockDetector, mockDialer, mockParser, nil)

		result, err := service.Crawl(context.Background())

		assert.NoError(st, err)
		assert.Equal(st, 2, result.Stats.Discovered)
		assert.Equal(st, 0, result.Stats.Failed)
		assert.Equal(st, 1, result.Stats.Unreachable)

		access, ok := result.Devices["access-sw01"]
		assert.True(st, ok)
		assert.Equal(st, "10.0.0.1", access.IP)
		assert.Equal(st, "ios", access.Platform)

		conns := access.Connections["core-sw01"]
		assert.Len(st, conns, 1)
		assert.Equal(st, "Gi1/0/1", conns[0].LocalPort)
		assert.Equal(st, "Gi1/0/24", conns[0].RemotePort)

		_, ok = result.Devices["core-sw01"]
		assert.True(st, ok)

		// full pipeline: assembled graph is mirrored
		graph := topology.NewAssembler().Assemble(result.Devices)

		assert.Contains(st, graph["access-sw01"].Peers["core-sw01"].Connections, []string{"Gi1/0/1", "Gi1/0/24"})
		assert.Contains(st, graph["core-sw01"].Peers["access-sw01"].Connections, []string{"Gi1/0/24", "Gi1/0/1"})

		// the unreachable neighbor still appears as a stub peer
		_, ok = graph["dead-sw01"]
		assert.True(st, ok)
	})

	t.Run("device budget stops the crawl one short of max", func(st *testing.T) {
		ctrl := gomock.NewController(st)
		defer ctrl.Finish()

		mockDetector := mock_crawler.NewMockDetector(ctrl)
		mockDialer := mock_session.NewMockDialer(ctrl)
		mockParser := mock_parse.NewMockEngine(ctrl)
		mockSession := mock_session.NewMockSession(ctrl)

		iosDialect := newDialect(ctrl, "ios", "ios_cdp")

		mockDetector.EXPECT().
			Detect(gomock.Any(), "10.0.0.1", gomock.Any(), gomock.Any()).
			Return(iosDialect, &session.Facts{
				Hostname:  "access-sw01",
				Vendor:    "Cisco",
				Model:     "WS-C3850-48T",
				OSVersion: "Version 16.9.4",
			}, nil)

		mockDialer.EXPECT().
			Dial(gomock.Any(), "10.0.0.1", gomock.Any(), gomock.Any()).
			Return(mockSession, nil)

		mockSession.EXPECT().Close()

		mockSession.EXPECT().
			Run(gomock.Any(), "show cdp neighbors detail").
			Return("raw neighbor output", nil)

		mockParser.EXPECT().
			FindBestTemplate("raw neighbor output", "ios_cdp").
			Return("show cdp neighbors detail", []parse.Record{
				{
					"NEIGHBOR_NAME":      "core-sw01",
					"MGMT_ADDRESS":       "10.0.0.2",
					"LOCAL_INTERFACE":    "GigabitEthernet1/0/1",
					"NEIGHBOR_INTERFACE": "GigabitEthernet1/0/24",
				},
			}, 20.0)

		conf := crawlConf()
		conf.MaxDevices = 2

		service := crawler.NewCrawlService(conf, mockDetector, mockDialer, mockParser, nil)

		result, err := service.Crawl(context.Background())

		assert.NoError(st, err)
		// the effective ceiling sits one below the configured maximum
		assert.Equal(st, 1, result.Stats.Discovered)
	})

	t.Run("device ceiling holds under a concurrent fan-out", func(st *testing.T) {
		ctrl := gomock.NewController(st)
		defer ctrl.Finish()

		mockDetector := mock_crawler.NewMockDetector(ctrl)
		mockDialer := mock_session.NewMockDialer(ctrl)
		mockParser := mock_parse.NewMockEngine(ctrl)
		mockSession := mock_session.NewMockSession(ctrl)

		iosDialect := newDialect(ctrl, "ios", "ios_cdp")

		// every device answers, slowly enough that a whole wave is in
		// flight before the first registration lands
		mockDetector.EXPECT().
			Detect(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(
				ctx context.Context,
				address string,
				creds session.Credentials,
				timeout time.Duration,
			) (platform.Dialect, *session.Facts, error) {
				time.Sleep(10 * time.Millisecond)
				return iosDialect, &session.Facts{
					Hostname:  address,
					Vendor:    "Cisco",
					Model:     "WS-C3850-48T",
					OSVersion: "Version 16.9.4",
				}, nil
			}).
			AnyTimes()

		mockDialer.EXPECT().
			Dial(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(mockSession, nil).
			AnyTimes()

		mockSession.EXPECT().Close().AnyTimes()

		mockSession.EXPECT().
			Run(gomock.Any(), "show cdp neighbors detail").
			Return("raw neighbor output", nil).
			AnyTimes()

		fanout := []parse.Record{}

		for i, ip := range []string{"10.0.0.2", "10.0.0.3", "10.0.0.4", "10.0.0.5", "10.0.0.6"} {
			n := strconv.Itoa(i + 2)

			fanout = append(fanout, parse.Record{
				"NEIGHBOR_NAME":      "edge-sw0" + n,
				"MGMT_ADDRESS":       ip,
				"LOCAL_INTERFACE":    "GigabitEthernet1/0/" + n,
				"NEIGHBOR_INTERFACE": "GigabitEthernet0/1",
			})
		}

		mockParser.EXPECT().
			FindBestTemplate("raw neighbor output", "ios_cdp").
			Return("show cdp neighbors detail", fanout, 20.0).
			AnyTimes()

		conf := crawlConf()
		conf.MaxDevices = 3
		conf.Workers = 2

		service := crawler.NewCrawlService(conf, mockDetector, mockDialer, mockParser, nil)

		result, err := service.Crawl(context.Background())

		assert.NoError(st, err)
		// completed records never exceed one short of the configured maximum
		assert.Equal(st, 2, result.Stats.Discovered)
		assert.Len(st, result.Devices, 2)
	})

	t.Run("first address wins for a duplicate identity", func(st *testing.T) {
		ctrl := gomock.NewController(st)
		defer ctrl.Finish()

		mockDetector := mock_crawler.NewMockDetector(ctrl)
		mockDialer := mock_session.NewMockDialer(ctrl)
		mockParser := mock_parse.NewMockEngine(ctrl)
		mockSession := mock_session.NewMockSession(ctrl)

		iosDialect := newDialect(ctrl, "ios", "ios_cdp")

		// both addresses report the same hostname
		for _, address := range []string{"10.0.0.1", "10.0.0.2"} {
			mockDetector.EXPECT().
				Detect(gomock.Any(), address, gomock.Any(), gomock.Any()).
				Return(iosDialect, &session.Facts{
					Hostname:  "core-sw01",
					Vendor:    "Cisco",
					Model:     "WS-C3850-48T",
					OSVersion: "Version 16.9.4",
				}, nil)
		}

		// neighbor collection only runs for the first discovery
		mockDialer.EXPECT().
			Dial(gomock.Any(), "10.0.0.1", gomock.Any(), gomock.Any()).
			Return(mockSession, nil)

		mockSession.EXPECT().Close()

		mockSession.EXPECT().
			Run(gomock.Any(), "show cdp neighbors detail").
			Return("raw neighbor output", nil)

		mockParser.EXPECT().
			FindBestTemplate("raw neighbor output", "ios_cdp").
			Return("show cdp neighbors detail", []parse.Record{
				{
					"NEIGHBOR_NAME":      "core-sw01",
					"MGMT_ADDRESS":       "10.0.0.2",
					"LOCAL_INTERFACE":    "GigabitEthernet1/0/1",
					"NEIGHBOR_INTERFACE": "GigabitEthernet1/0/2",
				},
			}, 20.0)

		service := crawler.NewCrawlService(crawlConf(), mockDetector, mockDialer, mockParser, nil)

		result, err := service.Crawl(context.Background())

		assert.NoError(st, err)
		assert.Equal(st, 1, result.Stats.Discovered)
		assert.Equal(st, "10.0.0.1", result.Devices["core-sw01"].IP)
	})

	t.Run("excluded seed is dropped before any connection", func(st *testing.T) {
		ctrl := gomock.NewController(st)
		defer ctrl.Finish()

		// no expectations: the address must never be probed or dialed
		mockDetector := mock_crawler.NewMockDetector(ctrl)
		mockDialer := mock_session.NewMockDialer(ctrl)
		mockParser := mock_parse.NewMockEngine(ctrl)

		conf := crawlConf()
		conf.Seed = "10.0.0.99"
		conf.Exclusions = []string{"10.0.0.99"}

		service := crawler.NewCrawlService(conf, mockDetector, mockDialer, mockParser, nil)

		result, err := service.Crawl(context.Background())

		assert.NoError(st, err)
		assert.Equal(st, 0, result.Stats.Discovered)
		assert.Empty(st, result.Devices)
	})

	t.Run("excluded neighbors are not queued", func(st *testing.T) {
		ctrl := gomock.NewController(st)
		defer ctrl.Finish()

		mockDetector := mock_crawler.NewMockDetector(ctrl)
		mockDialer := mock_session.NewMockDialer(ctrl)
		mockParser := mock_parse.NewMockEngine(ctrl)
		mockSession := mock_session.NewMockSession(ctrl)

		iosDialect := newDialect(ctrl, "ios", "ios_cdp")

		mockDetector.EXPECT().
			Detect(gomock.Any(), "10.0.0.1", gomock.Any(), gomock.Any()).
			Return(iosDialect, &session.Facts{
				Hostname:  "access-sw01",
				Vendor:    "Cisco",
				Model:     "WS-C3850-48T",
				OSVersion: "Version 16.9.4",
			}, nil)

		mockDialer.EXPECT().
			Dial(gomock.Any(), "10.0.0.1", gomock.Any(), gomock.Any()).
			Return(mockSession, nil)

		mockSession.EXPECT().Close()

		mockSession.EXPECT().
			Run(gomock.Any(), "show cdp neighbors detail").
			Return("raw neighbor output", nil)

		mockParser.EXPECT().
			FindBestTemplate("raw neighbor output", "ios_cdp").
			Return("show cdp neighbors detail", []parse.Record{
				{
					"NEIGHBOR_NAME":      "lab-sw99",
					"MGMT_ADDRESS":       "10.0.0.50",
					"LOCAL_INTERFACE":    "GigabitEthernet1/0/5",
					"NEIGHBOR_INTERFACE": "GigabitEthernet0/1",
				},
			}, 20.0)

		conf := crawlConf()
		conf.Exclusions = []string{"lab-"}

		service := crawler.NewCrawlService(conf, mockDetector, mockDialer, mockParser, nil)

		result, err := service.Crawl(context.Background())

		assert.NoError(st, err)
		assert.Equal(st, 1, result.Stats.Discovered)
		assert.Empty(st, result.Devices["access-sw01"].Connections)
	})

	t.Run("low confidence parse yields no neighbors", func(st *testing.T) {
		ctrl := gomock.NewController(st)
		defer ctrl.Finish()

		mockDetector := mock_crawler.NewMockDetector(ctrl)
		mockDialer := mock_session.NewMockDialer(ctrl)
		mockParser := mock_parse.NewMockEngine(ctrl)
		mockSession := mock_session.NewMockSession(ctrl)

		iosDialect := newDialect(ctrl, "ios", "ios_cdp")

		mockDetector.EXPECT().
			Detect(gomock.Any(), "10.0.0.1", gomock.Any(), gomock.Any()).
			Return(iosDialect, &session.Facts{
				Hostname:  "access-sw01",
				Vendor:    "Cisco",
				Model:     "WS-C3850-48T",
				OSVersion: "Version 16.9.4",
			}, nil)

		mockDialer.EXPECT().
			Dial(gomock.Any(), "10.0.0.1", gomock.Any(), gomock.Any()).
			Return(mockSession, nil)

		mockSession.EXPECT().Close()

		mockSession.EXPECT().
			Run(gomock.Any(), "show cdp neighbors detail").
			Return("garbled", nil)

		mockParser.EXPECT().
			FindBestTemplate("garbled", "ios_cdp").
			Return("", nil, 0.0)

		service := crawler.NewCrawlService(crawlConf(), mockDetector, mockDialer, mockParser, nil)

		result, err := service.Crawl(context.Background())

		assert.NoError(st, err)
		assert.Empty(st, result.Devices["access-sw01"].Connections)
	})

	t.Run("alternate credentials are tried after auth failure", func(st *testing.T) {
		ctrl := gomock.NewController(st)
		defer ctrl.Finish()

		mockDetector := mock_crawler.NewMockDetector(ctrl)
		mockDialer := mock_session.NewMockDialer(ctrl)
		mockParser := mock_parse.NewMockEngine(ctrl)
		mockSession := mock_session.NewMockSession(ctrl)

		iosDialect := newDialect(ctrl, "ios", "ios_cdp")

		primary := session.Credentials{Username: "admin", Password: "secret"}
		alternate := session.Credentials{Username: "netops", Password: "other"}

		mockDetector.EXPECT().
			Detect(gomock.Any(), "10.0.0.1", primary, gomock.Any()).
			Return(nil, nil, exception.ErrAuthenticationFailed)

		mockDetector.EXPECT().
			Detect(gomock.Any(), "10.0.0.1", alternate, gomock.Any()).
			Return(iosDialect, &session.Facts{
				Hostname:  "access-sw01",
				Vendor:    "Cisco",
				Model:     "WS-C3850-48T",
				OSVersion: "Version 16.9.4",
			}, nil)

		mockDialer.EXPECT().
			Dial(gomock.Any(), "10.0.0.1", alternate, gomock.Any()).
			Return(mockSession, nil)

		mockSession.EXPECT().Close()

		mockSession.EXPECT().
			Run(gomock.Any(), "show cdp neighbors detail").
			Return("garbled", nil)

		mockParser.EXPECT().
			FindBestTemplate("garbled", "ios_cdp").
			Return("", nil, 0.0)

		conf := crawlConf()
		conf.Alternate = &config.Credentials{Username: "netops", Password: "other"}

		service := crawler.NewCrawlService(conf, mockDetector, mockDialer, mockParser, nil)

		result, err := service.Crawl(context.Background())

		assert.NoError(st, err)
		assert.Equal(st, 1, result.Stats.Discovered)
	})

	t.Run("cancellation preserves partial results", func(st *testing.T) {
		ctrl := gomock.NewController(st)
		defer ctrl.Finish()

		mockDetector := mock_crawler.NewMockDetector(ctrl)
		mockDialer := mock_session.NewMockDialer(ctrl)
		mockParser := mock_parse.NewMockEngine(ctrl)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		service := crawler.NewCrawlService(crawlConf(), mockDetector, mockDialer, mockParser, nil)

		result, err := service.Crawl(ctx)

		assert.ErrorIs(st, err, context.Canceled)
		assert.NotNil(st, result)
		assert.Equal(st, 0, result.Stats.Discovered)
	})
}
