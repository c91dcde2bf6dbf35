package identity

import (
	"fmt"
	"math/rand"
)

var (
	nicknameAdjectives = []string{"상큼한", "어두운", "행복한", "귀여운", "신비한"}
	nicknameAnimals    = []string{"호랑이", "팬더", "고양이", "늑대", "코끼리"}
)

// RandomNicknameBase returns a random adjective_animal combination,
// e.g. "상큼한_호랑이". The caller appends a #NNNN suffix to make it unique.
func RandomNicknameBase() string {
	adjective := nicknameAdjectives[rand.Intn(len(nicknameAdjectives))]
	animal := nicknameAnimals[rand.Intn(len(nicknameAnimals))]
	return adjective + "_" + animal
}

// NumberedNickname formats a base nickname with a zero-padded sequence
// number, e.g. "상큼한_호랑이#0001".
func NumberedNickname(base string, number int) string {
	return fmt.Sprintf("%s#%04d", base, number)
}

// NewUserWithGeneratedNickname creates a pending user with a
// system-generated nickname
func NewUserWithGeneratedNickname(email, nickname, password string) (*User, error) {
	return newUser(email, nickname, password, true)
}
