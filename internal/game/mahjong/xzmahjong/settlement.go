package xzmahjong

import (
	"fmt"

	"sudooom.im.xuezhan/internal/game/mahjong/core"
)

// 结算原因
const (
	ReasonKongExposed   = "明杠"
	ReasonKongConcealed = "暗杠"
	ReasonKongUpgraded  = "补杠"
	ReasonWinDiscard    = "点炮"
	ReasonWinSelfDrawn  = "自摸"
)

// transfer 从 from 转 amount 分给 to，并记录
func transfer(s *core.GameState, from, to *core.Player, amount int, reason string) {
	from.Score -= amount
	to.Score += amount
	s.Transfers = append(s.Transfers, core.Transfer{
		FromID: from.ID,
		ToID:   to.ID,
		Amount: amount,
		Reason: reason,
	})
}

// settleKong 杠的即时结算
// 明杠由点杠者付 2 倍底分；暗杠和补杠由其他三家各付 1 倍底分
func settleKong(s *core.GameState, claimant *core.Player, kind core.MeldKind, discarder *core.Player) {
	switch kind {
	case core.MeldKongExposed:
		transfer(s, discarder, claimant, 2*s.BaseUnit, ReasonKongExposed)
	case core.MeldKongConcealed, core.MeldKongUpgraded:
		reason := ReasonKongConcealed
		if kind == core.MeldKongUpgraded {
			reason = ReasonKongUpgraded
		}
		for _, p := range s.Players {
			if p.ID != claimant.ID {
				transfer(s, p, claimant, s.BaseUnit, reason)
			}
		}
	}
}

// settleWin 胡牌结算，仅在 SettleWins 打开时调用
// 点炮由点炮者付；自摸由所有未胡的玩家付
func settleWin(s *core.GameState, winner *core.Player, discarder *core.Player, fan int) {
	amount := fan * s.BaseUnit
	if discarder != nil {
		transfer(s, discarder, winner, amount, ReasonWinDiscard)
		return
	}
	for _, p := range s.Players {
		if p.ID != winner.ID && !p.HasWon {
			transfer(s, p, winner, amount, ReasonWinSelfDrawn)
		}
	}
}

// checkZeroSum 校验总分守恒
func checkZeroSum(s *core.GameState) error {
	if total := s.TotalScore(); total != s.InitialTotalScore {
		return fmt.Errorf("%w: total=%d expected=%d", ErrZeroSumViolated, total, s.InitialTotalScore)
	}
	return nil
}
