package detector

import (
	"fmt"
	"time"

	"FxPulse/internal/domain/models"
	"FxPulse/internal/indicator"
)

// Config carries the detection thresholds and per-rule toggles.
type Config struct {
	RSIOversold   float64 `yaml:"rsi_oversold" default:"30"`
	RSIOverbought float64 `yaml:"rsi_overbought" default:"70"`

	// Risk envelope multipliers applied to ATR.
	StopLossATR   float64 `yaml:"stop_loss_atr" default:"1.5"`
	TakeProfitATR float64 `yaml:"take_profit_atr" default:"2.0"`

	EnableRSI         bool `yaml:"enable_rsi" default:"true"`
	EnableMACD        bool `yaml:"enable_macd" default:"true"`
	EnableEMACross    bool `yaml:"enable_ema_cross" default:"true"`
	EnableProStrategy bool `yaml:"enable_pro_strategy" default:"true"`
	EnableConsensus   bool `yaml:"enable_consensus" default:"true"`
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		RSIOversold:       30,
		RSIOverbought:     70,
		StopLossATR:       1.5,
		TakeProfitATR:     2.0,
		EnableRSI:         true,
		EnableMACD:        true,
		EnableEMACross:    true,
		EnableProStrategy: true,
		EnableConsensus:   true,
	}
}

// Detector evaluates one symbol's indicator frame against the rule set.
// It carries no per-symbol state itself and is safe to share across
// symbols as long as each SymbolState has a single writer.
type Detector struct {
	cfg Config
	now func() time.Time
}

// New returns a detector with the given thresholds.
func New(cfg Config) *Detector {
	return &Detector{cfg: cfg, now: time.Now}
}

// Detect runs every enabled rule over the latest bar pair and returns
// the signals that fired this cycle. The state latches are resynced to
// the current bar before returning, whether or not anything fired, so a
// condition that persists across cycles fires exactly once. Fewer than
// two bars yields no signals and leaves the state untouched.
func (d *Detector) Detect(symbol string, bars models.Series, f *indicator.Frame, st *SymbolState, conf *models.Confirmation) []models.Signal {
	if f == nil || st == nil || len(bars) < 2 || f.Len() < 2 {
		return nil
	}

	price := bars[len(bars)-1].Close
	now := d.now()
	var out []models.Signal

	emit := func(dir models.Direction, trigger, reason string, strength models.Strength) {
		out = append(out, d.build(symbol, dir, trigger, reason, strength, price, f, conf, now))
	}

	// RSI zone exit. The latch records whether the previous reading was
	// inside the zone; on the very first evaluation it is seeded from
	// the previous bar so a straddling pair still fires.
	if curr, ok := f.Current(indicator.RSI); ok && d.cfg.EnableRSI {
		wasOversold, wasOverbought := st.rsiOversold, st.rsiOverbought
		if !st.seen {
			if prev, okPrev := f.At(indicator.RSI, f.Len()-2); okPrev {
				wasOversold = prev < d.cfg.RSIOversold
				wasOverbought = prev > d.cfg.RSIOverbought
			}
		}
		switch {
		case wasOversold && curr >= d.cfg.RSIOversold:
			emit(models.DirectionBuy, models.IndicatorRSI,
				fmt.Sprintf("RSI exited oversold zone (%.1f)", curr), models.StrengthModerate)
		case wasOverbought && curr <= d.cfg.RSIOverbought:
			emit(models.DirectionSell, models.IndicatorRSI,
				fmt.Sprintf("RSI exited overbought zone (%.1f)", curr), models.StrengthModerate)
		}
	}

	// MACD line vs signal line cross.
	if up, down, ok := d.cross(f, indicator.MACD, indicator.MACDSignal, st.macdVsSignal); ok && d.cfg.EnableMACD {
		if up {
			emit(models.DirectionBuy, models.IndicatorMACD,
				"MACD crossed above signal line", models.StrengthStrong)
		} else if down {
			emit(models.DirectionSell, models.IndicatorMACD,
				"MACD crossed below signal line", models.StrengthStrong)
		}
	}

	// Fast/slow EMA cross. The cross itself is computed regardless of
	// toggles because the pro strategy consumes the same event.
	emaUp, emaDown, emaOK := d.cross(f, indicator.EMAFast, indicator.EMASlow, st.emaFastSlow)
	if emaOK && d.cfg.EnableEMACross {
		if emaUp {
			emit(models.DirectionBuy, models.IndicatorEMACross,
				"Fast EMA crossed above slow EMA", models.StrengthStrong)
		} else if emaDown {
			emit(models.DirectionSell, models.IndicatorEMACross,
				"Fast EMA crossed below slow EMA", models.StrengthStrong)
		}
	}

	// Pro strategy: the EMA cross confirmed by the long trend EMA and
	// the RSI midline.
	if emaOK && d.cfg.EnableProStrategy {
		trend, trendOK := f.Current(indicator.EMATrend)
		rsi, rsiOK := f.Current(indicator.RSI)
		if trendOK && rsiOK {
			if emaUp && price > trend && rsi > 50 {
				emit(models.DirectionBuy, models.IndicatorProStrategy,
					"Golden cross above trend EMA with RSI momentum", models.StrengthVeryStrong)
			} else if emaDown && price < trend && rsi < 50 {
				emit(models.DirectionSell, models.IndicatorProStrategy,
					"Death cross below trend EMA with RSI weakness", models.StrengthVeryStrong)
			}
		}
	}

	// Consensus-led rule: a strong external recommendation with price on
	// the matching side of the trend EMA is a signal in its own right.
	if conf != nil && d.cfg.EnableConsensus {
		if trend, ok := f.Current(indicator.EMATrend); ok {
			if conf.Recommendation == models.RecStrongBuy && price > trend {
				emit(models.DirectionBuy, models.IndicatorConfirmation,
					fmt.Sprintf("Consensus STRONG_BUY (%d analysts bullish)", conf.Summary.Buy),
					models.StrengthVeryStrong)
			} else if conf.Recommendation == models.RecStrongSell && price < trend {
				emit(models.DirectionSell, models.IndicatorConfirmation,
					fmt.Sprintf("Consensus STRONG_SELL (%d analysts bearish)", conf.Summary.Sell),
					models.StrengthVeryStrong)
			}
		}
	}

	d.resync(f, st)
	return out
}

// cross reports whether the a-over-b pair crossed up or down on this
// bar. The latched relation from the previous cycle gates refiring; when
// it is unknown (first cycle or prior warm-up) the previous bar's values
// seed it. ok is false while the current pair is undefined.
func (d *Detector) cross(f *indicator.Frame, a, b string, latched relation) (up, down, ok bool) {
	currA, okA := f.Current(a)
	currB, okB := f.Current(b)
	if !okA || !okB {
		return false, false, false
	}
	prevRel := latched
	if prevRel == relUnknown {
		prevA, okPA := f.At(a, f.Len()-2)
		prevB, okPB := f.At(b, f.Len()-2)
		if !okPA || !okPB {
			return false, false, false
		}
		prevRel = relate(prevA, prevB)
	}
	currRel := relate(currA, currB)
	up = prevRel.notAbove() && currRel == relAbove
	down = prevRel.notBelow() && currRel == relBelow
	return up, down, true
}

// resync snaps every latch to the current bar. Latches whose inputs are
// still undefined keep their previous value.
func (d *Detector) resync(f *indicator.Frame, st *SymbolState) {
	if curr, ok := f.Current(indicator.RSI); ok {
		st.rsiOversold = curr < d.cfg.RSIOversold
		st.rsiOverbought = curr > d.cfg.RSIOverbought
	}
	if m, okM := f.Current(indicator.MACD); okM {
		if s, okS := f.Current(indicator.MACDSignal); okS {
			st.macdVsSignal = relate(m, s)
		}
	}
	if fast, okF := f.Current(indicator.EMAFast); okF {
		if slow, okS := f.Current(indicator.EMASlow); okS {
			st.emaFastSlow = relate(fast, slow)
		}
	}
	st.seen = true
}

func (d *Detector) build(symbol string, dir models.Direction, trigger, reason string, strength models.Strength, price float64, f *indicator.Frame, conf *models.Confirmation, now time.Time) models.Signal {
	atrRaw, atrOK := f.Current(indicator.ATR)
	atr := atrOrFallback(atrRaw, atrOK, price)
	stop, take := envelope(dir, price, atr, d.cfg.StopLossATR, d.cfg.TakeProfitATR)

	sig := models.Signal{
		Symbol:     symbol,
		Direction:  dir,
		Indicator:  trigger,
		Reason:     reason,
		Strength:   strength,
		Price:      price,
		StopLoss:   stop,
		TakeProfit: take,
		Time:       now,
		ATR:        atr,
	}
	if rsi, ok := f.Current(indicator.RSI); ok {
		sig.RSI = rsi
	}
	if hist, ok := f.Current(indicator.MACDHistogram); ok {
		sig.MACDHist = hist
	}
	if conf != nil {
		sig.Confirmation = &models.SignalConfirmation{
			Recommendation: conf.Recommendation,
			Confidence:     conf.ConfidenceTier(),
			BuyVotes:       conf.Summary.Buy,
			SellVotes:      conf.Summary.Sell,
		}
		if trigger != models.IndicatorConfirmation && conf.Recommendation.AgreesWith(dir) {
			sig.Strength = stronger(strength)
		}
	}
	return sig
}

// stronger bumps a strength one tier, saturating at VERY_STRONG.
func stronger(s models.Strength) models.Strength {
	switch s {
	case models.StrengthModerate:
		return models.StrengthStrong
	case models.StrengthStrong:
		return models.StrengthVeryStrong
	}
	return s
}
