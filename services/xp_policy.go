package services

import "math"

// participationRank — условный ранг "участия": плоский бонус, одинаковый
// для каждого участника этого уровня.
const participationRank = 9

// xpDistribution задает долю пула XP за каждое место. Доли верхних мест и
// доля участия — независимые множители одного пула, их сумма может
// превышать 1.0; это осознанная политика, а не ошибка округления.
var xpDistribution = map[int]float64{
	1: 0.660,
	2: 0.300,
	3: 0.240,
	4: 0.220,
	5: 0.210,
	6: 0.205,
	7: 0.202,
	8: 0.200,
	9: 0.100,
}

// xpWeight возвращает долю пула за место. Второе значение false означает,
// что место вне таблицы и награда не положена.
func xpWeight(rank int) (float64, bool) {
	w, ok := xpDistribution[rank]
	return w, ok
}

// contributionXP переводит сумму доната болельщика в XP.
func contributionXP(amount float64) int {
	return int(math.Floor(amount * 10))
}
