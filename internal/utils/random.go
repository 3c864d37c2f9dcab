package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/ss6051/shift-payroll/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

var storeNameSuffixes = []string{"便利店", "咖啡店", "面包房", "烧烤店", "奶茶店", "书店"}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomAccount(password string, emailDomainName string) (*domain.Account, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
	}

	return account, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

// 邀请码只用大写字母和数字，去掉了容易混淆的 0 O 1 I
var inviteCodeLetters = []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")

func GenerateInviteCode(length int) string {
	code := make([]rune, length)
	for i := range code {
		code[i] = inviteCodeLetters[rand.Intn(len(inviteCodeLetters))]
	}
	return string(code)
}

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

func GenerateRandomStore(ownerID int64) *domain.Store {
	return &domain.Store{
		Name:    GenerateRandomChineseName() + storeNameSuffixes[rand.Intn(len(storeNameSuffixes))],
		Address: "测试路 " + GenerateRandomID(0, 4) + " 号",
		OwnerID: ownerID,
	}
}

// GenerateRandomHourlyWage 生成 9860~15000 之间、以 10 为单位的时薪
func GenerateRandomHourlyWage() int64 {
	return 9860 + int64(rand.Intn(515))*10
}

// GenerateRandomScheduledWorkDays 随机挑选若干天作为约定工作日，其余日子不上班
func GenerateRandomScheduledWorkDays(storeID, accountID int64) []*domain.ScheduledWorkDay {
	days := make([]*domain.ScheduledWorkDay, 7)
	workDays := GenerateRandomSubset([]int32{1, 2, 3, 4, 5, 6, 7})

	for i := range days {
		days[i] = &domain.ScheduledWorkDay{
			StoreID:   storeID,
			AccountID: accountID,
			DayOfWeek: int32(i + 1),
		}
	}

	for _, day := range workDays {
		startHour := rand.Intn(10) + 6
		endHour := startHour + rand.Intn(6) + 3
		startTime := fmt.Sprintf("%02d:%02d:00", startHour, rand.Intn(2)*30)
		endTime := fmt.Sprintf("%02d:00:00", endHour)
		days[day-1].StartTime = &startTime
		days[day-1].EndTime = &endTime
	}

	return days
}

// GenerateRandomWorkIntervals 为 [from, to) 中每一天以一定概率生成一段工作记录，部分记录会跨过午夜
func GenerateRandomWorkIntervals(storeID, accountID int64, from, to time.Time) []*domain.WorkInterval {
	intervals := make([]*domain.WorkInterval, 0)

	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		if rand.Intn(10) < 4 {
			continue
		}

		start := day.Add(time.Duration(rand.Intn(18)+6) * time.Hour).Add(time.Duration(rand.Intn(60)) * time.Minute)
		end := start.Add(time.Duration(rand.Intn(6)+3) * time.Hour).Add(time.Duration(rand.Intn(60)) * time.Minute)

		intervals = append(intervals, &domain.WorkInterval{
			StoreID:   storeID,
			AccountID: accountID,
			Start:     start,
			End:       end,
		})
	}

	return intervals
}

// 使用 Fisher-Yates 洗牌算法来生成一个随机子集
func GenerateRandomSubset(arr []int32) []int32 {
	arrCopy := append([]int32{}, arr...) // 复制数组，避免修改原数组

	for i := 0; i < len(arrCopy)-1; i++ {
		j := rand.Intn(len(arrCopy)-i) + i
		arrCopy[i], arrCopy[j] = arrCopy[j], arrCopy[i]
	}

	l := rand.Intn(len(arrCopy)) + 1
	return arrCopy[:l]
}
