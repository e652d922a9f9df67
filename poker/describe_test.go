package poker

import (
	"testing"
)

func TestDescribeHand(t *testing.T) {
	testCases := []struct {
		hole     []string
		board    []string
		expected string
	}{
		// Preflop descriptions cover the hole cards only.
		{[]string{"As", "Ad"}, nil, "Pair of As"},
		{[]string{"Th", "Td"}, nil, "Pair of Ts"},
		{[]string{"Kh", "7d"}, nil, "High Card K"},
		{[]string{"2c", "9s"}, nil, "High Card 9"},

		{[]string{"Kh", "7d"}, []string{"2c", "9s", "Jd"}, "High Card K"},
		{[]string{"As", "Kd"}, []string{"Ah", "7c", "2d"}, "Pair of As"},
		{[]string{"As", "Kd"}, []string{"Ah", "Kc", "2d"}, "Two Pair, As over Ks"},
		{[]string{"2s", "2d"}, []string{"Kh", "Kc", "7h", "7c", "9d"}, "Two Pair, Ks over 7s"},
		{[]string{"As", "Ad"}, []string{"Ah", "7c", "2d"}, "Three of a Kind, As"},
		{[]string{"9h", "8d"}, []string{"7c", "6s", "5d"}, "Straight, 5 to 9"},
		{[]string{"Ah", "2d"}, []string{"3c", "4s", "5d"}, "Straight, A to 5"},
		{[]string{"Ah", "Kh"}, []string{"7h", "4h", "2h"}, "Flush, A high"},
		{[]string{"Ah", "Ad"}, []string{"As", "Kc", "Kd"}, "Full House, As full of Ks"},
		{[]string{"7h", "7d"}, []string{"7s", "7c", "2d"}, "Four of a Kind, 7s"},
		{[]string{"9h", "8h"}, []string{"7h", "6h", "5h"}, "Straight Flush, 5 to 9"},
		{[]string{"Ah", "2h"}, []string{"3h", "4h", "5h"}, "Straight Flush, A to 5"},
		{[]string{"Ah", "Kh"}, []string{"Qh", "Jh", "Th"}, "Royal Flush"},

		// Seven-card boards still describe the best five.
		{[]string{"As", "Kd"}, []string{"Ah", "7c", "2d", "8s", "3h"}, "Pair of As"},
		{[]string{"Qh", "Jh"}, []string{"Th", "9h", "8h", "2c", "2d"}, "Straight Flush, 8 to Q"},

		// Six connected ranks make the higher straight, not the wheel.
		{[]string{"Ah", "2d"}, []string{"3c", "4s", "5d", "6h"}, "Straight, 2 to 6"},

		// Offsuit cards stay out of flush descriptions.
		{[]string{"Kh", "Qh"}, []string{"7h", "4h", "2h", "As"}, "Flush, K high"},
		{[]string{"Ah", "2h"}, []string{"3h", "4h", "5h", "6c", "7d"}, "Straight Flush, A to 5"},
	}

	for i, tc := range testCases {
		board := cardsFromStrings(tc.board...)
		result := DescribeHand(cardsFromStrings(tc.hole...), board)
		if result != tc.expected {
			t.Errorf("Test case %d hole: %v board: %v, expected [%s], actual [%s]", i, tc.hole, tc.board, tc.expected, result)
		}
	}
}
