package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/okian/netninja/internal/cli"
	"github.com/okian/netninja/internal/config"
	"github.com/okian/netninja/internal/domain/netmath"
	"github.com/okian/netninja/internal/domain/progression"
	"github.com/okian/netninja/internal/domain/shop"
	"github.com/smartystreets/goconvey/convey"
)

// scripted feeds one line per Read, computed from what the command printed
// so far. answer returns false to end input.
type scripted struct {
	out    *bytes.Buffer
	answer func(screen string) (string, bool)
	calls  int
	buf    []byte
}

func (s *scripted) Read(p []byte) (int, error) {
	if len(s.buf) == 0 {
		s.calls++
		if s.calls > 100 {
			return 0, io.EOF
		}
		line, ok := s.answer(color.ClearCode(s.out.String()))
		if !ok {
			return 0, io.EOF
		}
		s.buf = []byte(line + "\n")
	}
	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}

func run(ctx context.Context, answer func(string) (string, bool), args ...string) (string, error) {
	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	if answer == nil {
		answer = func(string) (string, bool) { return "", false }
	}
	cmd.SetIn(&scripted{out: &out, answer: answer})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return color.ClearCode(out.String()), err
}

// after returns the text following the last occurrence of marker.
func after(screen, marker string) string {
	if i := strings.LastIndex(screen, marker); i >= 0 {
		return screen[i:]
	}
	return screen
}

var (
	questionRe = regexp.MustCompile(`Convert (\S+) to Decimal|Usable hosts in a /(\d+) subnet`)
	targetRe   = regexp.MustCompile(`Target\s+(\d+\.\d+\.\d+\.\d+)`)
	optionRe   = regexp.MustCompile(`\d+\) (\d+\.\d+\.\d+\.\d+)/(\d+)`)
)

func solveQuestion(screen string) string {
	all := questionRe.FindAllStringSubmatch(screen, -1)
	if len(all) == 0 {
		return "?"
	}
	m := all[len(all)-1]
	switch {
	case m[2] != "":
		cidr, _ := strconv.Atoi(m[2])
		return strconv.Itoa(netmath.UsableHosts(cidr))
	case strings.HasPrefix(m[1], "0x"):
		v, _ := strconv.ParseUint(strings.TrimPrefix(m[1], "0x"), 16, 8)
		return strconv.FormatUint(v, 10)
	default:
		v, _ := strconv.ParseUint(m[1], 2, 8)
		return strconv.FormatUint(v, 10)
	}
}

func solveRoute(screen string) string {
	screen = after(screen, "Packet Tracer")
	t := targetRe.FindStringSubmatch(screen)
	if t == nil {
		return "?"
	}
	dst, _ := netmath.ParseIP(t[1])
	for _, m := range optionRe.FindAllStringSubmatch(screen, -1) {
		n, _ := netmath.ParseIP(m[1])
		cidr, _ := strconv.Atoi(m[2])
		if netmath.Contains(dst, n, cidr) {
			return m[1] + "/" + m[2]
		}
	}
	return "?"
}

func statsOf(ctx context.Context, args ...string) progression.Stats {
	out, err := run(ctx, nil, append(args, "stats", "--output", "json")...)
	convey.So(err, convey.ShouldBeNil)
	var st progression.Stats
	convey.So(json.Unmarshal([]byte(out), &st), convey.ShouldBeNil)
	return st
}

func TestStats(t *testing.T) {
	t.Setenv(config.EnvConfig, "")
	convey.Convey("Given a fresh player on memory storage", t, func() {
		ctx := context.Background()

		convey.Convey("When stats is printed as json", func() {
			st := statsOf(ctx, "--store", "memory")

			convey.Convey("Then it is the default record", func() {
				convey.So(st.Level, convey.ShouldEqual, 1)
				convey.So(st.XP, convey.ShouldEqual, 0)
				convey.So(st.Inventory, convey.ShouldContain, progression.DefaultTheme)
			})
		})

		convey.Convey("When stats is printed as yaml", func() {
			out, err := run(ctx, nil, "--store", "memory", "stats", "-o", "yaml")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "level: 1")
			convey.So(out, convey.ShouldContainSubstring, "xp: 0")
		})

		convey.Convey("When stats is printed as text", func() {
			out, err := run(ctx, nil, "--store", "memory", "stats")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "Player")
			convey.So(out, convey.ShouldContainSubstring, "none yet")
			convey.So(out, convey.ShouldContainSubstring, "Hello World")
			convey.So(out, convey.ShouldContainSubstring, "0/50 XP")
			convey.So(out, convey.ShouldContainSubstring, "Lvl 1/10")
		})

		convey.Convey("When the output format is unknown", func() {
			_, err := run(ctx, nil, "--store", "memory", "stats", "-o", "xml")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the store driver is unknown", func() {
			_, err := run(ctx, nil, "--store", "etcd", "stats")
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

func TestPlayAndDaily(t *testing.T) {
	t.Setenv(config.EnvConfig, "")
	convey.Convey("Given a player on a file store", t, func() {
		ctx := context.Background()
		store := []string{"--store", "file", "--store-path", filepath.Join(t.TempDir(), "p.json")}

		convey.Convey("When a binary decoder puzzle is answered correctly", func() {
			answered := false
			out, err := run(ctx, func(screen string) (string, bool) {
				if answered {
					return "", false
				}
				answered = true
				return solveQuestion(screen), true
			}, append(store, "play", "binary_decoder", "-n", "1")...)

			convey.Convey("Then the verdict and the XP are recorded", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Correct! +75 XP")
				convey.So(out, convey.ShouldContainSubstring, "Badge unlocked: 🌱 Hello World")
				convey.So(statsOf(ctx, store...).XP, convey.ShouldEqual, 75)
			})
		})

		convey.Convey("When the answer is malformed and the player quits", func() {
			inputs := []string{"twelve", "q"}
			out, err := run(ctx, func(string) (string, bool) {
				if len(inputs) == 0 {
					return "", false
				}
				in := inputs[0]
				inputs = inputs[1:]
				return in, true
			}, append(store, "play", "binary_decoder")...)

			convey.Convey("Then the puzzle is asked again and no XP is awarded", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(strings.Count(out, "> "), convey.ShouldEqual, 2)
				convey.So(statsOf(ctx, store...).XP, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the kind is unknown", func() {
			_, err := run(ctx, nil, append(store, "play", "sudoku")...)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the daily challenge is cleared", func() {
			out, err := run(ctx, func(screen string) (string, bool) {
				return solveQuestion(after(screen, "Daily Challenge")), true
			}, append(store, "daily")...)

			convey.Convey("Then the bonus and the streak are recorded once", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Challenge complete! +300 XP, streak 1")
				convey.So(out, convey.ShouldContainSubstring, "Come back tomorrow")

				st := statsOf(ctx, store...)
				convey.So(st.XP, convey.ShouldEqual, progression.DailyBonusXP)
				convey.So(st.Streak, convey.ShouldEqual, 1)

				again, err := run(ctx, nil, append(store, "daily")...)
				convey.So(err, convey.ShouldBeNil)
				convey.So(again, convey.ShouldContainSubstring, "Come back tomorrow")
			})
		})
	})
}

func TestTrace(t *testing.T) {
	t.Setenv(config.EnvConfig, "")
	convey.Convey("Given a packet tracer session on a file store", t, func() {
		ctx := context.Background()
		store := []string{"--store", "file", "--store-path", filepath.Join(t.TempDir(), "p.json")}

		out, err := run(ctx, func(screen string) (string, bool) {
			switch {
			case strings.HasSuffix(screen, "route> "):
				return solveRoute(screen), true
			case strings.HasSuffix(screen, "next level? [Y/n] "):
				return "n", true
			}
			return "", false
		}, append(store, "trace")...)

		convey.Convey("Then the packet is delivered and the rewards are applied", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "Packet delivered")
			convey.So(out, convey.ShouldContainSubstring, "XP earned this session: ")
			convey.So(statsOf(ctx, store...).XP, convey.ShouldBeGreaterThan, 100)
		})
	})
}

func TestShopAndHint(t *testing.T) {
	t.Setenv(config.EnvConfig, "")
	t.Setenv("NETNINJA_HINT_DELAY_MS", "0")
	convey.Convey("Given a fresh player", t, func() {
		ctx := context.Background()
		store := []string{"--store", "sqlite", "--store-path", filepath.Join(t.TempDir(), "p.db")}

		convey.Convey("When the catalog is listed", func() {
			out, err := run(ctx, nil, append(store, "shop", "list")...)
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "av_ninja")
			convey.So(out, convey.ShouldContainSubstring, "equipped")
		})

		convey.Convey("When an item is too expensive", func() {
			_, err := run(ctx, nil, append(store, "shop", "buy", "av_ninja")...)
			convey.So(errors.Is(err, shop.ErrInsufficientFunds), convey.ShouldBeTrue)
		})

		convey.Convey("When a default item is equipped", func() {
			out, err := run(ctx, nil, append(store, "shop", "equip", "av_robot")...)
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "Equipped av_robot.")
		})

		convey.Convey("When an unknown item is bought", func() {
			_, err := run(ctx, nil, append(store, "shop", "buy", "av_dragon")...)
			convey.So(errors.Is(err, shop.ErrUnknownItem), convey.ShouldBeTrue)
		})

		convey.Convey("When the tutor is asked", func() {
			out, err := run(ctx, nil, append(store, "hint", "subnet", "what is a mask")...)
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "Tutor")
		})

		convey.Convey("When a subnet breakdown is requested", func() {
			out, err := run(ctx, nil, append(store, "hint", "--ip", "192.168.1.10", "--cidr", "26")...)
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "192.168.1.63")
		})

		convey.Convey("When no topic is given", func() {
			_, err := run(ctx, nil, append(store, "hint")...)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestServe(t *testing.T) {
	t.Setenv(config.EnvConfig, "")
	convey.Convey("Given a free local port", t, func() {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		convey.So(err, convey.ShouldBeNil)
		addr := ln.Addr().String()
		convey.So(ln.Close(), convey.ShouldBeNil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 1)
		go func() {
			_, err := run(ctx, nil, "--store", "memory", "serve", "--addr", addr)
			done <- err
		}()

		convey.Convey("When the server is up", func() {
			var (
				resp *http.Response
				err  error
			)
			deadline := time.Now().Add(3 * time.Second)
			for time.Now().Before(deadline) {
				resp, err = http.Get("http://" + addr + "/stats")
				if err == nil {
					break
				}
				time.Sleep(20 * time.Millisecond)
			}
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the API answers and shutdown is clean", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				var st progression.Stats
				convey.So(json.NewDecoder(resp.Body).Decode(&st), convey.ShouldBeNil)
				convey.So(st.Level, convey.ShouldEqual, 1)

				docs, err := http.Get("http://" + addr + "/openapi.json")
				convey.So(err, convey.ShouldBeNil)
				_ = docs.Body.Close()
				convey.So(docs.StatusCode, convey.ShouldEqual, http.StatusOK)

				cancel()
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					convey.So("serve did not stop", convey.ShouldBeEmpty)
				}
			})
		})
	})
}
