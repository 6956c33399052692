package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "heart-dimensions/internal/application"
	"heart-dimensions/internal/container"
	"heart-dimensions/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот для измерения размеров сердца на рентгеновских снимках.

📸 Пришлите снимок, а затем маску сегментации сердца — я посчитаю длину и ширину.

📋 Команды:
/measure — начать измерение
/ppi <число> — указать разрешение снимков
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /measure
2️⃣ Пришлите рентгеновский снимок
3️⃣ Пришлите маску сегментации того же размера (белое — сердце, чёрное — фон)
4️⃣ Получите длину и ширину в сантиметрах и снимок с разметкой

💡 Лучше присылать файлы документом, чтобы Telegram не сжимал маску.

📋 Команды:
/measure — начать измерение
/ppi <число> — разрешение снимков (по умолчанию %.0f)
/cancel — отменить операцию`

	msgAwaitingXray    = "📸 Отправьте рентгеновский снимок."
	msgAwaitingMask    = "🩻 Снимок получен. Теперь отправьте маску сегментации сердца."
	msgCancelled       = "❌ Операция отменена. Отправьте /measure для нового измерения."
	msgSendMeasure     = "📋 Отправьте /measure, чтобы начать измерение."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Измеряю..."
	msgBusy            = "⏳ Подождите, идёт измерение."
	msgNoHeart         = "🔍 Сердце на маске не найдено."
	msgProcessingError = "⚠️ Не удалось обработать изображения. Проверьте, что маска совпадает со снимком по размеру."
	msgPPIUsage        = "ℹ️ Использование: /ppi 300"
	msgPPISet          = "✅ Разрешение снимков: %g PPI."
	msgPPIInvalid      = "⚠️ Разрешение должно быть положительным числом."
	msgResult          = "📏 Длина сердца: %.2f см\n📐 Ширина сердца: %.2f см\n\n(%g PPI)"
)

// Bot представляет Telegram-бота
type Bot struct {
	api       *tgbotapi.BotAPI
	container *container.Container
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:       api,
		container: c,
	}, nil
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	user, err := b.container.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Printf("Error getting user: %v", err)
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка файлов
	if fileID, ok := imageFileID(msg); ok {
		b.handleImage(ctx, msg, user, fileID)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendMeasure)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		if _, err := b.container.SessionService.Cancel(ctx, user.ID, chatID); err != nil {
			log.Printf("Error resetting user: %v", err)
		}
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, fmt.Sprintf(msgHelp, b.container.MeasurementService.Options().ResolutionPPI))

	case "measure":
		if _, err := b.container.SessionService.Begin(ctx, user.ID, chatID); err != nil {
			log.Printf("Error starting measurement: %v", err)
			return
		}
		b.sendMessage(chatID, msgAwaitingXray)

	case "ppi":
		b.handleResolution(ctx, msg, user)

	case "cancel":
		if _, err := b.container.SessionService.Cancel(ctx, user.ID, chatID); err != nil {
			log.Printf("Error cancelling: %v", err)
		}
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleResolution обрабатывает /ppi <число>
func (b *Bot) handleResolution(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		b.sendMessage(msg.Chat.ID, msgPPIUsage)
		return
	}

	ppi, err := strconv.ParseFloat(strings.ReplaceAll(arg, ",", "."), 64)
	if err != nil {
		b.sendMessage(msg.Chat.ID, msgPPIInvalid)
		return
	}

	if _, err := b.container.UserService.SetResolution(ctx, user.ID, msg.Chat.ID, ppi); err != nil {
		if errors.Is(err, entity.ErrInvalidResolution) {
			b.sendMessage(msg.Chat.ID, msgPPIInvalid)
			return
		}
		log.Printf("Error saving resolution: %v", err)
		return
	}

	b.sendMessage(msg.Chat.ID, fmt.Sprintf(msgPPISet, ppi))
}

// handleImage принимает снимок или маску в зависимости от состояния
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message, user *entity.User, fileID string) {
	chatID := msg.Chat.ID

	switch user.State {
	case entity.StateAwaitingXray:
		data, err := b.downloadFile(fileID)
		if err != nil {
			log.Printf("Error downloading x-ray: %v", err)
			b.sendMessage(chatID, msgProcessingError)
			return
		}
		if _, err := b.container.SessionService.AcceptXray(ctx, user.ID, chatID, data); err != nil {
			log.Printf("Error saving x-ray: %v", err)
			return
		}
		b.sendMessage(chatID, msgAwaitingMask)

	case entity.StateAwaitingMask:
		b.sendMessage(chatID, msgProcessing)

		data, err := b.downloadFile(fileID)
		if err != nil {
			log.Printf("Error downloading mask: %v", err)
			b.sendMessage(chatID, msgProcessingError)
			return
		}

		out, err := b.container.SessionService.AcceptMask(ctx, user.ID, chatID, data)
		if err != nil {
			log.Printf("Error measuring heart: %v", err)
			b.sendMessage(chatID, msgProcessingError)
			return
		}
		b.sendResult(chatID, out)

	case entity.StateProcessing:
		b.sendMessage(chatID, msgBusy)

	default:
		b.sendMessage(chatID, msgSendMeasure)
	}
}

// sendResult отправляет размеры и размеченный снимок
func (b *Bot) sendResult(chatID int64, out *app.MeasurementOutput) {
	dims := out.Dimensions
	if dims == nil || !dims.Detected {
		b.sendMessage(chatID, msgNoHeart)
		return
	}

	text := fmt.Sprintf(msgResult, dims.Length.Centimeters, dims.Breadth.Centimeters, dims.ResolutionPPI)
	if len(out.AnnotatedPNG) == 0 {
		b.sendMessage(chatID, text)
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "annotated_xray_lines.png", Bytes: out.AnnotatedPNG})
	photo.Caption = text
	if _, err := b.api.Send(photo); err != nil {
		log.Printf("Error sending photo: %v", err)
		b.sendMessage(chatID, text)
	}
}

// imageFileID возвращает ID самого большого фото или документа-изображения
func imageFileID(msg *tgbotapi.Message) (string, bool) {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID, true
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID, true
	}
	return "", false
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
