// Command pemf-controller drives the pEMF therapy device: coil pulse train,
// session timer, charge interlock, button gestures, and pixel feedback, with
// MQTT diagnostics and an HTTP status page.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/pemf-controller/internal/config"
	"github.com/sweeney/pemf-controller/internal/gpio"
	"github.com/sweeney/pemf-controller/internal/logic"
	"github.com/sweeney/pemf-controller/internal/mqtt"
	"github.com/sweeney/pemf-controller/internal/pixel"
	"github.com/sweeney/pemf-controller/internal/status"
	"github.com/sweeney/pemf-controller/internal/web"
)

func main() {
	def := config.Default()

	configPath := flag.String("config", "", "YAML config file (flags override file values)")
	poll := flag.Int("poll", def.Device.PollMs, "control loop interval in ms (1 or 2)")
	broker := flag.String("broker", def.Device.Broker, "MQTT broker address")
	heartbeat := flag.Int("heartbeat", def.Device.HeartbeatMs, "heartbeat interval in ms (0 to disable)")
	httpAddr := flag.String("http", def.Device.HTTPAddr, "HTTP status address (empty to disable)")
	spiDevice := flag.String("spi", def.Device.SPIDevice, "spidev node for the pixel (empty to disable)")
	pinCoil := flag.Int("pin-coil", def.Device.Pins.Coil, "BCM pin number for the coil MOSFET")
	pinCharge := flag.Int("pin-charge", def.Device.Pins.Charge, "BCM pin number for charger presence")
	pinButton := flag.Int("pin-button", def.Device.Pins.Button, "BCM pin number for the button")
	printState := flag.Bool("print-state", false, "Print current input state and exit")
	wsBroker := flag.String("ws-broker", "off", `MQTT websocket URL for live UI ("=broker" derives from --broker, "off" disables)`)

	flag.Parse()

	cfg := def
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("fatal: %v", err)
		}
		cfg = loaded
	}

	// Explicitly set flags win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "poll":
			cfg.Device.PollMs = *poll
		case "broker":
			cfg.Device.Broker = *broker
		case "heartbeat":
			cfg.Device.HeartbeatMs = *heartbeat
		case "http":
			cfg.Device.HTTPAddr = *httpAddr
		case "spi":
			cfg.Device.SPIDevice = *spiDevice
		case "pin-coil":
			cfg.Device.Pins.Coil = *pinCoil
		case "pin-charge":
			cfg.Device.Pins.Charge = *pinCharge
		case "pin-button":
			cfg.Device.Pins.Button = *pinButton
		}
	})

	if err := config.Validate(&cfg); err != nil {
		log.Fatalf("fatal: invalid config: %v", err)
	}

	ws := resolveWSBroker(*wsBroker, cfg.Device.Broker)
	if err := run(cfg, ws, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config, wsBroker string, printState bool) error {
	d := cfg.Device

	// Inputs first: print-state must not touch the coil line.
	button, err := gpio.NewButtonInput(d.Pins.Button)
	if err != nil {
		return fmt.Errorf("init button: %w", err)
	}
	defer button.Close()

	charge, err := gpio.NewChargeInput(d.Pins.Charge)
	if err != nil {
		return fmt.Errorf("init charge sense: %w", err)
	}
	defer charge.Close()

	if printState {
		charging, err := charge.Read()
		if err != nil {
			return fmt.Errorf("read charge sense: %w", err)
		}
		pressed, err := button.Read()
		if err != nil {
			return fmt.Errorf("read button: %w", err)
		}
		fmt.Printf("Charging: %s, Button: %s\n", yesNo(charging), pressedString(pressed))
		return nil
	}

	// Coil line is requested low and driven low again on Close.
	coil, err := gpio.NewCoilOutput(d.Pins.Coil)
	if err != nil {
		return fmt.Errorf("init coil: %w", err)
	}
	defer coil.Close()

	var strip logic.ColorOutput = pixel.NullStrip{}
	if d.SPIDevice != "" {
		s, err := pixel.NewSPIStrip(d.SPIDevice)
		if err != nil {
			return fmt.Errorf("init pixel: %w", err)
		}
		strip = s
	}

	// Composition root: one explicit wiring of the core, no globals.
	now := time.Now
	waveform := logic.NewWaveform(coil)
	disp := logic.NewDispatcher(
		logic.NewGestureDetector(now()),
		logic.NewSession(waveform),
		logic.NewFeedback(strip),
	)

	publisher := mqtt.NewRealPublisher(d.Broker)
	defer publisher.Close()

	tracker := status.NewTracker(now(), status.Config{
		PollMs:      int64(d.PollMs),
		HeartbeatMs: int64(d.HeartbeatMs),
		Broker:      d.Broker,
		HTTPPort:    d.HTTPAddr,
		WSBroker:    wsBroker,
		SPIDevice:   d.SPIDevice,
		PinCoil:     d.Pins.Coil,
		PinCharge:   d.Pins.Charge,
		PinButton:   d.Pins.Button,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	if d.HTTPAddr != "" {
		srv := web.New(d.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", d.HTTPAddr)
	}

	pollInterval := time.Duration(d.PollMs) * time.Millisecond
	heartbeat := time.Duration(d.HeartbeatMs) * time.Millisecond
	log.Printf("started: poll=%v broker=%s heartbeat=%v pins=coil:%d/charge:%d/button:%d",
		pollInterval, d.Broker, heartbeat, d.Pins.Coil, d.Pins.Charge, d.Pins.Button)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(button, charge, disp, publisher, publisher, tracker, heartbeat, now, ticker.C, sigCh)
}

// runLoop is the poll-driven dispatcher loop. Everything it depends on is
// injected so tests can drive it with fakes and a scripted clock.
func runLoop(button, charge gpio.Input, disp *logic.Dispatcher, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	var counts status.Counts
	lastHeartbeat := now()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}

			// Safe hand-off: coil off first, then blank and release
			// the pixel line for external reflashing tooling.
			if err := disp.Session.Stop(); err != nil {
				log.Printf("stop session: %v", err)
			}
			if err := disp.Feedback.TurnOff(); err != nil {
				log.Printf("pixel blanking: %v", err)
			}

			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()

			// Charge state is sampled fresh every iteration. A read
			// failure fails safe: treat as charging so the interlock
			// stops the session rather than leaving the coil driven.
			charging, err := charge.Read()
			if err != nil {
				log.Printf("charge sense read error (failing safe): %v", err)
				charging = true
			}
			raw, err := button.Read()
			if err != nil {
				log.Printf("button read error: %v", err)
				raw = false
			}

			res := disp.Step(logic.Input{Charging: charging, ButtonRaw: raw, Now: t})
			for _, err := range res.Errs {
				log.Printf("hardware error: %v", err)
			}

			countGesture(&counts, res.Gesture)
			for _, ev := range res.Events {
				countEvent(&counts, ev)
				log.Printf("event: %s (phase=%s remaining=%v)",
					ev, disp.Session.Phase(), disp.Session.Remaining(t).Truncate(time.Second))
				if err := publisher.Publish(mqtt.Event{
					Timestamp:   t,
					Type:        string(ev),
					Phase:       string(disp.Session.Phase()),
					RemainingMs: disp.Session.Remaining(t).Milliseconds(),
					LimitMs:     disp.Session.Limit().Milliseconds(),
					Charging:    charging,
				}); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			if tracker != nil {
				tracker.Update(disp.Session.Phase(), charging, disp.Feedback.Enabled(),
					disp.Session.Remaining(t), disp.Session.Limit(), counts)
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				log.Printf("heartbeat: phase=%s sessions=%d interlocks=%d lockouts=%d",
					disp.Session.Phase(), counts.Sessions, counts.Interlocks, counts.Lockouts)

				hbEvent := mqtt.SystemEvent{
					Timestamp: t,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

func countGesture(c *status.Counts, g logic.Gesture) {
	switch g {
	case logic.GestureSinglePress:
		c.SinglePresses++
	case logic.GestureDoublePress:
		c.DoublePresses++
	case logic.GestureLongHold:
		c.LongHolds++
	}
}

func countEvent(c *status.Counts, ev logic.Event) {
	switch ev {
	case logic.EventSessionStart:
		c.Sessions++
	case logic.EventSessionExtend:
		c.Extensions++
	case logic.EventSessionStop:
		c.Stops++
	case logic.EventChargeInterlock:
		c.Interlocks++
	case logic.EventSessionLockout:
		c.Lockouts++
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func pressedString(pressed bool) string {
	if pressed {
		return "pressed"
	}
	return "released"
}

// resolveWSBroker converts the --ws-broker flag value into a concrete URL.
// "=broker" derives ws://host:9001 from the TCP broker address; "off" or
// empty disables.
func resolveWSBroker(ws, broker string) string {
	if ws == "off" || ws == "" {
		return ""
	}
	if ws != "=broker" {
		return ws
	}
	u, err := url.Parse(broker)
	if err != nil {
		log.Printf("ws-broker: cannot parse --broker %q: %v", broker, err)
		return ""
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String()
}
